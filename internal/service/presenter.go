package service

import (
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/entity"

	"github.com/google/uuid"
)

func idsOrEmpty(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

func toNoteResponse(n *entity.Note) dto.NoteResponse {
	return dto.NoteResponse{
		Id:      n.Id,
		Title:   n.Title,
		Content: n.Content,
		Seq:     n.Seq,
	}
}

func toAttachmentResponse(a *entity.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		Id:                       a.Id,
		Filename:                 a.Filename,
		Mime:                     a.Mime,
		Bytes:                    a.Bytes,
		Sha256:                   a.Sha256,
		S3ObjectKey:              a.S3ObjectKey,
		S3Url:                    a.S3Url,
		ExternalUrl:              a.ExternalUrl,
		OpenaiFileId:             a.OpenaiFileId,
		OpenaiFilePurpose:        a.OpenaiFilePurpose,
		EnableFileSearch:         a.EnableFileSearch,
		Summary:                  a.Summary,
		Meta:                     a.Meta,
		TranscriptionStatus:      string(a.TranscriptionStatus),
		TranscriptionLang:        a.TranscriptionLang,
		TranscriptionDurationSec: a.TranscriptionDurationSec,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}
}

func toFolderRef(f *entity.NotebookFolder) dto.NotebookFolderRef {
	return dto.NotebookFolderRef{
		Id:          f.Id,
		Name:        f.Name,
		Description: f.Description,
		Color:       f.Color,
	}
}

func toNotebookResponse(nb *entity.Notebook, notes []*entity.Note, attachments []*entity.Attachment, folders []*entity.NotebookFolder) *dto.NotebookResponse {
	res := &dto.NotebookResponse{
		Id:                   nb.Id,
		Title:                nb.Title,
		Summary:              nb.Summary,
		IsArchived:           nb.IsArchived,
		Color:                nb.Color,
		OpenaiVectorStoreId:  nb.OpenaiVectorStoreId,
		VectorStoreExpiresAt: nb.VectorStoreExpiresAt,
		Notes:                make([]dto.NoteResponse, 0, len(notes)),
		Attachments:          make([]dto.AttachmentResponse, 0, len(attachments)),
		Folders:              make([]dto.NotebookFolderRef, 0, len(folders)),
		CreatedAt:            nb.CreatedAt,
		UpdatedAt:            nb.UpdatedAt,
	}
	for _, n := range notes {
		res.Notes = append(res.Notes, toNoteResponse(n))
	}
	for _, a := range attachments {
		res.Attachments = append(res.Attachments, toAttachmentResponse(a))
	}
	for _, f := range folders {
		res.Folders = append(res.Folders, toFolderRef(f))
	}
	return res
}

func toNotebookFolderResponse(f *entity.NotebookFolder, notebookIds []uuid.UUID) *dto.NotebookFolderResponse {
	return &dto.NotebookFolderResponse{
		Id:          f.Id,
		Name:        f.Name,
		Description: f.Description,
		Color:       f.Color,
		NotebookIds: idsOrEmpty(notebookIds),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func toFlashcardResponse(c *entity.Flashcard, folderIds []uuid.UUID) dto.FlashcardResponse {
	return dto.FlashcardResponse{
		Id:         c.Id,
		NotebookId: c.NotebookId,
		Question:   c.Question,
		Answer:     c.Answer,
		Meta:       c.Meta,
		FolderIds:  idsOrEmpty(folderIds),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func toFlashcardFolderResponse(f *entity.FlashcardFolder, cardIds []uuid.UUID) *dto.FlashcardFolderResponse {
	return &dto.FlashcardFolderResponse{
		Id:           f.Id,
		NotebookId:   f.NotebookId,
		Name:         f.Name,
		Description:  f.Description,
		FlashcardIds: idsOrEmpty(cardIds),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func toQuizQuestionResponse(q *entity.QuizQuestion, folderIds []uuid.UUID) dto.QuizQuestionResponse {
	options := q.Options
	if options == nil {
		options = []string{}
	}
	return dto.QuizQuestionResponse{
		Id:           q.Id,
		NotebookId:   q.NotebookId,
		Question:     q.Question,
		Options:      options,
		CorrectIndex: q.CorrectIndex,
		Hint:         q.Hint,
		Explaination: q.Explaination,
		Meta:         q.Meta,
		IsFavorite:   q.IsFavorite,
		FolderIds:    idsOrEmpty(folderIds),
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

func toQuizFolderResponse(f *entity.QuizFolder, questionIds []uuid.UUID) *dto.QuizFolderResponse {
	return &dto.QuizFolderResponse{
		Id:          f.Id,
		NotebookId:  f.NotebookId,
		Name:        f.Name,
		Description: f.Description,
		QuestionIds: idsOrEmpty(questionIds),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func toQuizAttemptResponse(a *entity.QuizAttempt) *dto.QuizAttemptResponse {
	results := a.Results
	if results == nil {
		results = []entity.AttemptResult{}
	}
	return &dto.QuizAttemptResponse{
		Id:             a.Id,
		FolderId:       a.FolderId,
		Results:        results,
		TotalQuestions: a.TotalQuestions,
		CorrectCount:   a.CorrectCount,
		Summary:        a.Summary,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toMindMapResponse(m *entity.MindMap) *dto.MindMapResponse {
	return &dto.MindMapResponse{
		Id:         m.Id,
		NotebookId: m.NotebookId,
		Title:      m.Title,
		Data:       m.Data,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toSessionInfo(u *entity.User, memberships []*entity.Membership) *dto.SessionInfoResponse {
	res := &dto.SessionInfoResponse{
		User: dto.UserResponse{
			Id:       u.Id,
			Email:    u.Email,
			Name:     u.Name,
			IsActive: u.IsActive,
		},
		Memberships: make([]dto.MembershipResponse, 0, len(memberships)),
	}
	for _, m := range memberships {
		res.Memberships = append(res.Memberships, dto.MembershipResponse{
			Id:        m.Id,
			Plan:      m.Plan,
			Status:    string(m.Status),
			StartedAt: m.StartedAt,
			EndsAt:    m.EndsAt,
		})
		// Memberships come newest first; the first active one is the current plan.
		if res.User.MemberPlan == nil && m.Status == entity.MembershipStatusActive {
			plan := m.Plan
			res.User.MemberPlan = &plan
			res.User.MemberUntil = m.EndsAt
		}
	}
	return res
}
