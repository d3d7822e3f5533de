package service

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/pkg/config"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
)

func jarkomanRequest() dto.JarkomanRequest {
	return dto.JarkomanRequest{
		Title:       "Rapat Pleno 1",
		Date:        "Senin, 12 Agustus 2024",
		Time:        "13.00 WIB",
		Location:    "Sekre Utama",
		Description: "Harap datang tepat waktu",
		Dept:        "MEDIA",
		Logistics:   "-",
	}
}

func TestJarkomanServiceGenerate(t *testing.T) {
	chat := &mockChat{reply: "  *[JARKOMAN RAPAT PLENO 1]*  "}
	svc := NewJarkomanService(chat, nil, nil, nil, zap.NewNop(), config.AIConfig{})

	res, err := svc.Generate(context.Background(), jarkomanRequest())
	require.NoError(t, err)
	assert.Equal(t, "*[JARKOMAN RAPAT PLENO 1]*", res.Jarkoman)

	require.Len(t, chat.reqs, 1)
	req := chat.reqs[0]
	assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
	assert.InDelta(t, 0.3, req.Temperature, 0.0001)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "SATU BINTANG")
	assert.Contains(t, req.Messages[1].Content, "- Barang Bawaan: Menyesuaikan")
	assert.Contains(t, req.Messages[1].Content, "- Waktu: Senin, 12 Agustus 2024, Jam 13.00 WIB")
	assert.Contains(t, req.Messages[1].Content, "- Departemen: MEDIA")
}

func TestJarkomanServiceConfigOverrides(t *testing.T) {
	chat := &mockChat{reply: "ok"}
	svc := NewJarkomanService(chat, nil, nil, nil, zap.NewNop(), config.AIConfig{Model: "mixtral", Temperature: 0.7})

	_, err := svc.Generate(context.Background(), jarkomanRequest())
	require.NoError(t, err)
	assert.Equal(t, "mixtral", chat.reqs[0].Model)
	assert.InDelta(t, 0.7, chat.reqs[0].Temperature, 0.0001)
}

func TestJarkomanServiceEmptyCompletion(t *testing.T) {
	svc := NewJarkomanService(&mockChat{}, nil, nil, nil, zap.NewNop(), config.AIConfig{})

	res, err := svc.Generate(context.Background(), jarkomanRequest())
	require.NoError(t, err)
	assert.Equal(t, "Gagal membuat teks.", res.Jarkoman)
}

func TestJarkomanServiceUpstreamFailure(t *testing.T) {
	svc := NewJarkomanService(&mockChat{err: errors.New("429 rate limited")}, nil, nil, nil, zap.NewNop(), config.AIConfig{})

	_, err := svc.Generate(context.Background(), jarkomanRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrAIFailed)
	assert.Equal(t, "Gagal memanggil AI", appErrors.FromError(err).Message)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestJarkomanServiceWithoutClient(t *testing.T) {
	svc := NewJarkomanService(nil, nil, nil, nil, zap.NewNop(), config.AIConfig{})
	_, err := svc.Generate(context.Background(), jarkomanRequest())
	assert.ErrorIs(t, err, appErrors.ErrAIFailed)
}

func TestBuildJarkomanPromptKeepsLogistics(t *testing.T) {
	req := jarkomanRequest()
	req.Logistics = "Laptop, Kabel Roll"
	req.Status = string(models.EventStatusTentative)
	req.LinkMeeting = "https://meet.example/abc"

	prompt := buildJarkomanPrompt(req)
	assert.Contains(t, prompt, "- Barang Bawaan: Laptop, Kabel Roll")
	assert.Contains(t, prompt, "Tentatif")
	assert.Contains(t, prompt, "- Link Meeting: https://meet.example/abc")
}

func TestJarkomanServiceForEvent(t *testing.T) {
	events := newMockEventRepo(models.Event{
		ID:       eventPleno,
		Title:    "Rapat Pleno",
		Start:    time.Date(2024, 8, 12, 6, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 8, 12, 8, 0, 0, 0, time.UTC),
		Location: "Sekre Utama",
		Proker:   models.EventProker{Name: "Upgrading", DepartmentID: 3},
	})
	chat := &mockChat{reply: "teks"}
	svc := NewJarkomanService(chat, events, nil, nil, zap.NewNop(), config.AIConfig{})

	_, err := svc.ForEvent(context.Background(), nil, eventPleno)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.ForEvent(context.Background(), superAdmin(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	res, err := svc.ForEvent(context.Background(), superAdmin(), eventPleno)
	require.NoError(t, err)
	assert.Equal(t, "teks", res.Jarkoman)
	assert.Contains(t, chat.reqs[0].Messages[1].Content, "- Waktu: Senin, 12 Agustus 2024, Jam 13.00 WIB")
	assert.Contains(t, chat.reqs[0].Messages[1].Content, "- Departemen: MEDIA")
}
