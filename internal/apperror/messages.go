package apperror

// messages maps error codes to human-readable messages.
var messages = map[Code]string{
	// Authorization
	CodeNotAuthorized:    "Caller is not authorized to execute arbitrage",
	CodeInvalidCallback:  "Loan callback did not originate from the credit facility",
	CodeInvalidInitiator: "Loan callback was not initiated by this engine",
	CodeNotOwner:         "Operation restricted to the owner",

	// State
	CodePaused:             "Engine is paused",
	CodeReentrancyDetected: "A cycle is already executing",

	// Route
	CodeUnsupportedVenue:      "Unknown venue identifier",
	CodeSlippageExceeded:      "Swap output below minimum acceptable amount",
	CodeNotProfitable:         "Round trip did not produce a strict profit",
	CodeInsufficientRepayment: "Final amount does not cover principal plus premium",
	CodeInvalidRoute:          "Route failed validation",
	CodeInvalidStrategy:       "Strategy variant does not match its route",

	// Parameter
	CodeInvalidTipPercentage: "Tip percentage must be at most 100",
	CodeInsufficientBalance:  "Requested amount exceeds held balance",
	CodeInvalidAmount:        "Amount must be positive",
	CodeInvalidSubmission:    "Route submission failed validation",

	// External collaborators
	CodeVenueCallFailed:       "Venue call failed",
	CodeFacilityCallFailed:    "Credit facility call failed",
	CodeLedgerOperationFailed: "Token ledger operation failed",
	CodeStoreOperationFailed:  "Execution store operation failed",
	CodeWebhookDeliveryFailed: "Webhook delivery failed",
	CodeFeedConnectionFailed:  "Route feed connection failed",

	// General
	CodeConfigurationError: "Configuration error",
	CodeInternalError:      "Internal error",
	CodeUnknownError:       "An unknown error occurred",
}
