package mapper

import (
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:            d.Id,
		ChatId:        d.ChatId,
		Name:          d.Name,
		ContentType:   d.ContentType,
		Size:          d.Size,
		ObjectKey:     d.ObjectKey,
		ExtractedText: d.ExtractedText,
		CreatedAt:     d.CreatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:            d.Id,
		ChatId:        d.ChatId,
		Name:          d.Name,
		ContentType:   d.ContentType,
		Size:          d.Size,
		ObjectKey:     d.ObjectKey,
		ExtractedText: d.ExtractedText,
		CreatedAt:     d.CreatedAt,
	}
}
