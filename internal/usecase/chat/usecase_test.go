package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quillhq/quill-backend/internal/entity"
	"github.com/quillhq/quill-backend/internal/integration/embedding"
	"github.com/quillhq/quill-backend/internal/integration/llm"
	"github.com/quillhq/quill-backend/internal/integration/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The mock connectors must stay drop-in replacements for the real ones.
var (
	_ LLMConnector       = &llm.Connector{}
	_ LLMConnector       = &llm.MockConnector{}
	_ EmbeddingConnector = &embedding.Connector{}
	_ EmbeddingConnector = &embedding.MockConnector{}
	_ VectorSearcher     = &vectorstore.Connector{}
	_ VectorSearcher     = &vectorstore.MockConnector{}
)

type stubFileRepo struct {
	file *entity.File
	err  error
}

func (r *stubFileRepo) GetFileByIDAndUser(ctx context.Context, fileID, userID string) (*entity.File, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.file == nil || r.file.ID != fileID || r.file.UserID != userID {
		return nil, entity.ErrFileNotFound
	}
	return r.file, nil
}

type stubMessageRepo struct {
	messages  []*entity.Message
	createErr error
	listErr   error
	clock     time.Time
	gotLimit  int
}

func (r *stubMessageRepo) CreateMessage(ctx context.Context, msg entity.Message) (*entity.Message, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if r.clock.IsZero() {
		r.clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	r.clock = r.clock.Add(time.Millisecond)
	msg.CreatedAt = r.clock
	stored := msg
	r.messages = append(r.messages, &stored)
	return &stored, nil
}

func (r *stubMessageRepo) ListRecentByFile(ctx context.Context, fileID string, limit int) ([]*entity.Message, error) {
	r.gotLimit = limit
	if r.listErr != nil {
		return nil, r.listErr
	}
	var filtered []*entity.Message
	for _, m := range r.messages {
		if m.FileID == fileID {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered, nil
}

func (r *stubMessageRepo) seed(fileID, userID string, turns ...string) {
	for i, text := range turns {
		_, _ = r.CreateMessage(context.Background(), entity.Message{
			ID:            uuid.New().String(),
			FileID:        fileID,
			UserID:        userID,
			Text:          text,
			IsUserMessage: i%2 == 0,
		})
	}
}

type stubLLM struct {
	response  string
	err       error
	gotSystem string
	gotUser   string
	calls     int
}

func (s *stubLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.gotSystem = systemPrompt
	s.gotUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubEmbedder struct {
	vector  []float32
	err     error
	gotText string
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	s.gotText = text
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

type stubVectors struct {
	passages     []entity.Passage
	err          error
	gotNamespace string
	gotLimit     int
	gotVector    []float32
}

func (s *stubVectors) SimilaritySearch(ctx context.Context, namespace string, vector []float32, limit int) ([]entity.Passage, error) {
	s.gotNamespace = namespace
	s.gotVector = vector
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.passages, nil
}

const (
	testFileID = "b3a7c6be-7f4f-4a7a-9b1e-0d6a2f1c5e90"
	testUserID = "u1"
)

func newTestFile() *entity.File {
	return &entity.File{ID: testFileID, UserID: testUserID, Name: "report.pdf"}
}

func TestSendMessage_HappyPath(t *testing.T) {
	fileRepo := &stubFileRepo{file: newTestFile()}
	msgRepo := &stubMessageRepo{}
	msgRepo.seed(testFileID, testUserID, "hi", "hello")
	llm := &stubLLM{response: "Page 3 discusses alpha."}
	embedder := &stubEmbedder{vector: []float32{0.1, 0.2}}
	vectors := &stubVectors{passages: []entity.Passage{
		{PageContent: "alpha", Source: "page 3"},
		{PageContent: "beta", Source: "page 4"},
	}}

	uc := NewUsecase(fileRepo, msgRepo, llm, embedder, vectors)

	answer, err := uc.SendMessage(context.Background(), testUserID, testFileID, "What is on page 3?")
	require.NoError(t, err)
	assert.Equal(t, "Page 3 discusses alpha.", answer)

	// Exactly one user turn and one assistant turn appended, in that order.
	require.Len(t, msgRepo.messages, 4)
	userTurn := msgRepo.messages[2]
	assistantTurn := msgRepo.messages[3]
	assert.True(t, userTurn.IsUserMessage)
	assert.Equal(t, "What is on page 3?", userTurn.Text)
	assert.False(t, assistantTurn.IsUserMessage)
	assert.Equal(t, "Page 3 discusses alpha.", assistantTurn.Text)
	assert.Equal(t, testFileID, userTurn.FileID)
	assert.Equal(t, testUserID, assistantTurn.UserID)
	assert.True(t, userTurn.CreatedAt.Before(assistantTurn.CreatedAt))

	// The vector store is queried with the file id as namespace, nothing else.
	assert.Equal(t, testFileID, vectors.gotNamespace)
	assert.Equal(t, contextLimit, vectors.gotLimit)
	assert.Equal(t, embedder.vector, vectors.gotVector)
	assert.Equal(t, "What is on page 3?", embedder.gotText)

	// Prompt structure: markers present and ordered.
	prompt := llm.gotUser
	prev := strings.Index(prompt, "PREVIOUS CONVERSATION:")
	ctxIdx := strings.Index(prompt, "CONTEXT:")
	input := strings.Index(prompt, "USER INPUT:")
	require.GreaterOrEqual(t, prev, 0)
	assert.Greater(t, ctxIdx, prev)
	assert.Greater(t, input, ctxIdx)

	// History was read after the user turn was written, so the question
	// shows up both in the conversation block and in USER INPUT.
	assert.Contains(t, prompt[prev:ctxIdx], "User: What is on page 3?")
	assert.Contains(t, prompt[prev:ctxIdx], "User: hi")
	assert.Contains(t, prompt[prev:ctxIdx], "Assistant: hello")
	assert.Contains(t, prompt[ctxIdx:input], "alpha\n\nbeta")
	assert.Equal(t, systemPrompt, llm.gotSystem)
}

func TestSendMessage_ForeignFile(t *testing.T) {
	fileRepo := &stubFileRepo{file: newTestFile()}
	msgRepo := &stubMessageRepo{}
	llm := &stubLLM{response: "should not be called"}
	embedder := &stubEmbedder{vector: []float32{0.1}}
	vectors := &stubVectors{}

	uc := NewUsecase(fileRepo, msgRepo, llm, embedder, vectors)

	_, err := uc.SendMessage(context.Background(), "u2", testFileID, "hi")
	require.ErrorIs(t, err, entity.ErrFileNotFound)
	assert.Empty(t, msgRepo.messages)
	assert.Zero(t, llm.calls)
}

func TestSendMessage_MissingFile(t *testing.T) {
	fileRepo := &stubFileRepo{}
	msgRepo := &stubMessageRepo{}
	uc := NewUsecase(fileRepo, msgRepo, &stubLLM{}, &stubEmbedder{}, &stubVectors{})

	_, err := uc.SendMessage(context.Background(), testUserID, testFileID, "hi")
	require.ErrorIs(t, err, entity.ErrFileNotFound)
	assert.Empty(t, msgRepo.messages)
}

func TestSendMessage_EmptyCompletionFallback(t *testing.T) {
	fileRepo := &stubFileRepo{file: newTestFile()}
	msgRepo := &stubMessageRepo{}
	llm := &stubLLM{response: ""}
	uc := NewUsecase(fileRepo, msgRepo, llm, &stubEmbedder{vector: []float32{0.1}}, &stubVectors{})

	answer, err := uc.SendMessage(context.Background(), testUserID, testFileID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I couldn't generate a response.", answer)

	// The fallback is what gets persisted, not the empty string.
	require.Len(t, msgRepo.messages, 2)
	assert.Equal(t, "Sorry, I couldn't generate a response.", msgRepo.messages[1].Text)
	assert.False(t, msgRepo.messages[1].IsUserMessage)
}

func TestSendMessage_VectorFailureKeepsUserTurn(t *testing.T) {
	fileRepo := &stubFileRepo{file: newTestFile()}
	msgRepo := &stubMessageRepo{}
	llm := &stubLLM{response: "unused"}
	vectors := &stubVectors{err: errors.New("index unavailable")}

	uc := NewUsecase(fileRepo, msgRepo, llm, &stubEmbedder{vector: []float32{0.1}}, vectors)

	_, err := uc.SendMessage(context.Background(), testUserID, testFileID, "hi")
	require.Error(t, err)

	// Partial persistence is intentional: the user turn stays, no
	// assistant turn follows, nothing is deleted.
	require.Len(t, msgRepo.messages, 1)
	assert.True(t, msgRepo.messages[0].IsUserMessage)
	assert.Equal(t, "hi", msgRepo.messages[0].Text)
	assert.Zero(t, llm.calls)
}

func TestSendMessage_LLMFailureKeepsUserTurn(t *testing.T) {
	fileRepo := &stubFileRepo{file: newTestFile()}
	msgRepo := &stubMessageRepo{}
	llm := &stubLLM{err: errors.New("provider error")}

	uc := NewUsecase(fileRepo, msgRepo, llm, &stubEmbedder{vector: []float32{0.1}}, &stubVectors{})

	_, err := uc.SendMessage(context.Background(), testUserID, testFileID, "hi")
	require.Error(t, err)
	require.Len(t, msgRepo.messages, 1)
	assert.True(t, msgRepo.messages[0].IsUserMessage)
}

func TestSendMessage_UserTurnWriteFailureAbortsRetrieval(t *testing.T) {
	fileRepo := &stubFileRepo{file: newTestFile()}
	msgRepo := &stubMessageRepo{createErr: errors.New("db down")}
	embedder := &stubEmbedder{vector: []float32{0.1}}

	uc := NewUsecase(fileRepo, msgRepo, &stubLLM{}, embedder, &stubVectors{})

	_, err := uc.SendMessage(context.Background(), testUserID, testFileID, "hi")
	require.Error(t, err)
	assert.Empty(t, embedder.gotText)
}

func TestSendMessage_HistoryCappedAtSixTurns(t *testing.T) {
	fileRepo := &stubFileRepo{file: newTestFile()}
	msgRepo := &stubMessageRepo{}
	msgRepo.seed(testFileID, testUserID,
		"turn-1", "turn-2", "turn-3", "turn-4", "turn-5",
		"turn-6", "turn-7", "turn-8", "turn-9", "turn-10",
	)
	llm := &stubLLM{response: "ok"}

	uc := NewUsecase(fileRepo, msgRepo, llm, &stubEmbedder{vector: []float32{0.1}}, &stubVectors{})

	_, err := uc.SendMessage(context.Background(), testUserID, testFileID, "latest question")
	require.NoError(t, err)

	prompt := llm.gotUser
	// Six most recent turns only; the current question is one of them.
	assert.NotContains(t, prompt, "turn-5\n")
	assert.Contains(t, prompt, "turn-6")
	assert.Contains(t, prompt, "turn-10")
	assert.Contains(t, prompt, "User: latest question\n")

	lines := strings.Count(prompt[strings.Index(prompt, "PREVIOUS CONVERSATION:"):strings.Index(prompt, "CONTEXT:")], "\n")
	assert.LessOrEqual(t, lines, historyLimit+3)
}

func TestListMessages(t *testing.T) {
	fileRepo := &stubFileRepo{file: newTestFile()}
	msgRepo := &stubMessageRepo{}
	msgRepo.seed(testFileID, testUserID, "hi", "hello", "more")

	uc := NewUsecase(fileRepo, msgRepo, &stubLLM{}, &stubEmbedder{}, &stubVectors{})

	t.Run("ascending order", func(t *testing.T) {
		messages, err := uc.ListMessages(context.Background(), testUserID, testFileID, 2)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "hello", messages[0].Text)
		assert.Equal(t, "more", messages[1].Text)
		assert.True(t, messages[0].CreatedAt.Before(messages[1].CreatedAt))
	})

	t.Run("default limit", func(t *testing.T) {
		messages, err := uc.ListMessages(context.Background(), testUserID, testFileID, 0)
		require.NoError(t, err)
		assert.Len(t, messages, 3)
		assert.Equal(t, defaultListLimit, msgRepo.gotLimit)
	})

	t.Run("limit clamped", func(t *testing.T) {
		_, err := uc.ListMessages(context.Background(), testUserID, testFileID, 500)
		require.NoError(t, err)
		assert.Equal(t, maxListLimit, msgRepo.gotLimit)
	})

	t.Run("foreign file", func(t *testing.T) {
		_, err := uc.ListMessages(context.Background(), "u2", testFileID, 10)
		assert.ErrorIs(t, err, entity.ErrFileNotFound)
	})
}
