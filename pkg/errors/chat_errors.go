package errors

import "errors"

var (
	// Domain errors — used in usecase/repository
	ErrUserNotFound         = NotFound("user not found")
	ErrChannelNotFound      = NotFound("channel not found")
	ErrMessageNotFound      = NotFound("message not found")
	ErrConversationNotFound = NotFound("conversation not found")
	ErrNotAMember           = Forbidden("you are not a member of this channel")
	ErrNotMessageSender     = Forbidden("only the sender can modify this message")
	ErrEmptyMessage         = InvalidArg("message needs content or at least one attachment")
	ErrContentTooLong       = InvalidArg("message content exceeds 5000 characters")
	ErrInvalidDestination   = InvalidArg("message must target exactly one channel or conversation")
	ErrSelfConversation     = InvalidArg("cannot start a conversation with yourself")
	ErrInvalidToken         = Unauthorized("invalid or expired token")
	ErrMissingToken         = Unauthorized("authentication token required")
)

func ErrSendFailed(cause error) error {
	return Wrap(CodeInternal, "failed to send message", cause)
}

// CodeOf extracts the taxonomy code from an error chain, defaulting to
// INTERNAL for anything that is not an AppError.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
