package message

import "github.com/quillhq/quill-backend/internal/entity"

func toMessageDTOs(messages []*entity.Message) []entity.MessageDTO {
	dtos := make([]entity.MessageDTO, 0, len(messages))
	for _, msg := range messages {
		dtos = append(dtos, entity.MessageDTO{
			ID:            msg.ID,
			Text:          msg.Text,
			IsUserMessage: msg.IsUserMessage,
			CreatedAt:     msg.CreatedAt,
		})
	}
	return dtos
}
