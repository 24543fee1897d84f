package apperror

// Code represents a unique error code for the application.
type Code string

// Category groups error codes by how the engine must react to them.
// Every category is fatal to its unit of work; none are retried internally.
type Category string

const (
	// CategoryAuthorization covers caller and callback identity failures.
	CategoryAuthorization Category = "AUTHORIZATION"
	// CategoryState covers failures of the engine's own state machine.
	CategoryState Category = "STATE"
	// CategoryRoute covers failures while executing or settling a route.
	CategoryRoute Category = "ROUTE"
	// CategoryParameter covers caller-supplied values that fail validation.
	CategoryParameter Category = "PARAMETER"
	// CategoryExternal covers collaborator failures, rethrown unchanged.
	CategoryExternal Category = "EXTERNAL"
)

// Authorization error codes
const (
	CodeNotAuthorized    Code = "NOT_AUTHORIZED"
	CodeInvalidCallback  Code = "INVALID_CALLBACK"
	CodeInvalidInitiator Code = "INVALID_INITIATOR"
	CodeNotOwner         Code = "NOT_OWNER"
)

// State error codes
const (
	CodePaused             Code = "PAUSED"
	CodeReentrancyDetected Code = "REENTRANCY_DETECTED"
)

// Route error codes
const (
	CodeUnsupportedVenue      Code = "UNSUPPORTED_VENUE"
	CodeSlippageExceeded      Code = "SLIPPAGE_EXCEEDED"
	CodeNotProfitable         Code = "NOT_PROFITABLE"
	CodeInsufficientRepayment Code = "INSUFFICIENT_REPAYMENT"
	CodeInvalidRoute          Code = "INVALID_ROUTE"
	CodeInvalidStrategy       Code = "INVALID_STRATEGY"
)

// Parameter error codes
const (
	CodeInvalidTipPercentage Code = "INVALID_TIP_PERCENTAGE"
	CodeInsufficientBalance  Code = "INSUFFICIENT_BALANCE"
	CodeInvalidAmount        Code = "INVALID_AMOUNT"
	CodeInvalidSubmission    Code = "INVALID_SUBMISSION"
)

// External collaborator error codes
const (
	CodeVenueCallFailed       Code = "VENUE_CALL_FAILED"
	CodeFacilityCallFailed    Code = "FACILITY_CALL_FAILED"
	CodeLedgerOperationFailed Code = "LEDGER_OPERATION_FAILED"
	CodeStoreOperationFailed  Code = "STORE_OPERATION_FAILED"
	CodeWebhookDeliveryFailed Code = "WEBHOOK_DELIVERY_FAILED"
	CodeFeedConnectionFailed  Code = "FEED_CONNECTION_FAILED"
)

// General codes
const (
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// categories maps every code to its taxonomy category.
var categories = map[Code]Category{
	CodeNotAuthorized:    CategoryAuthorization,
	CodeInvalidCallback:  CategoryAuthorization,
	CodeInvalidInitiator: CategoryAuthorization,
	CodeNotOwner:         CategoryAuthorization,

	CodePaused:             CategoryState,
	CodeReentrancyDetected: CategoryState,

	CodeUnsupportedVenue:      CategoryRoute,
	CodeSlippageExceeded:      CategoryRoute,
	CodeNotProfitable:         CategoryRoute,
	CodeInsufficientRepayment: CategoryRoute,
	CodeInvalidRoute:          CategoryRoute,
	CodeInvalidStrategy:       CategoryRoute,

	CodeInvalidTipPercentage: CategoryParameter,
	CodeInsufficientBalance:  CategoryParameter,
	CodeInvalidAmount:        CategoryParameter,
	CodeInvalidSubmission:    CategoryParameter,

	CodeVenueCallFailed:       CategoryExternal,
	CodeFacilityCallFailed:    CategoryExternal,
	CodeLedgerOperationFailed: CategoryExternal,
	CodeStoreOperationFailed:  CategoryExternal,
	CodeWebhookDeliveryFailed: CategoryExternal,
	CodeFeedConnectionFailed:  CategoryExternal,
}

// CategoryOf returns the taxonomy category for a code.
// Codes outside the taxonomy are treated as external.
func CategoryOf(code Code) Category {
	if cat, ok := categories[code]; ok {
		return cat
	}
	return CategoryExternal
}
