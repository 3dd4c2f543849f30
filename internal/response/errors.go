package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrAdminExists        ErrCode = "ADMIN_EXISTS"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrNotAllocated      ErrCode = "NOT_ALLOCATED"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation       ErrCode = "VALIDATION_ERROR"
	ErrInvalidID        ErrCode = "INVALID_ID"
	ErrInvalidPayload   ErrCode = "INVALID_PAYLOAD"
	ErrInvalidReference ErrCode = "INVALID_REFERENCE"
	ErrScopeMismatch    ErrCode = "SCOPE_MISMATCH"
	ErrSemesterRequired ErrCode = "SEMESTER_REQUIRED"
	ErrInvalidRange     ErrCode = "INVALID_RANGE"
	ErrUnknownStudent   ErrCode = "UNKNOWN_STUDENT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Scheduling & attendance ───────────────────────────────────────
	ErrAllocationExists ErrCode = "ALLOCATION_EXISTS"
	ErrDuplicateEntry   ErrCode = "DUPLICATE_TIMETABLE_ENTRY"
	ErrSlotOccupied     ErrCode = "SLOT_OCCUPIED"
	ErrAlreadyMarked    ErrCode = "ALREADY_MARKED"

	// ─── Import ────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrImportRejected  ErrCode = "IMPORT_REJECTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrAdminExists:
		return "An administrator account already exists."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrNotAllocated:
		return "You are not allocated to this course for the selected class."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidReference:
		return "A referenced batch, department, semester, section or course does not exist."
	case ErrScopeMismatch:
		return "The section or course does not belong to the selected batch and department."
	case ErrSemesterRequired:
		return "A semester must be selected."
	case ErrInvalidRange:
		return "The start must be before the end."
	case ErrUnknownStudent:
		return "A listed student is not enrolled in the selected class or is listed twice."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "The record cannot be deleted because other records still depend on it."

	// ─── Scheduling & attendance ───────────────────────────────────────
	case ErrAllocationExists:
		return "This course is already allocated for the selected class. Resubmit with force to reassign it."
	case ErrDuplicateEntry:
		return "An identical timetable entry already exists. Pick a different day, time or class type."
	case ErrSlotOccupied:
		return "Another entry already occupies this day and time slot."
	case ErrAlreadyMarked:
		return "Attendance has already been marked for this course, date and time."

	// ─── Import ────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type. Upload a .csv or .xlsx file."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrImportRejected:
		return "The import was rejected and no users were created."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
