package validator

import (
	"fmt"
	"strings"

	"github.com/quillhq/quill-backend/internal/entity"
)

// ValidateSendMessage validates SendMessageRequest. Empty and
// whitespace-only strings are rejected; there is no coercion.
func (v *Validator) ValidateSendMessage(req *entity.SendMessageRequest) error {
	if strings.TrimSpace(req.FileID) == "" {
		return fmt.Errorf("%w: fileId", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}

	return nil
}

// ValidateListMessages validates the query parameters of the history read.
func (v *Validator) ValidateListMessages(fileID string) error {
	if strings.TrimSpace(fileID) == "" {
		return fmt.Errorf("%w: fileId", entity.ErrMissingField)
	}

	return nil
}
