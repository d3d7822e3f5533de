package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/pkg/config"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/timezone"
)

const (
	defaultJarkomanModel       = "llama-3.3-70b-versatile"
	defaultJarkomanTemperature = 0.3
	defaultGroqBaseURL         = "https://api.groq.com/openai/v1"

	jarkomanFallbackText     = "Gagal membuat teks."
	jarkomanDefaultLogistics = "Menyesuaikan"
	jarkomanDateLayout       = "Monday, 02 January 2006"
	jarkomanTimeLayout       = "15.04"
)

const jarkomanSystemPrompt = `Kamu adalah Sekretaris Organisasi. Tugasmu membuat Broadcast WhatsApp (Jarkoman) yang RAPI dan BERSIH.

ATURAN FORMATTING WHATSAPP (STRICT):
1. BOLD: Gunakan SATU BINTANG (*Teks*). JANGAN gunakan dua bintang (**Teks**).
2. ITALIC: Gunakan SATU UNDERSCORE (_Teks_).
3. LIST/POIN: Gunakan Angka (1.) atau Strip (-). DILARANG menggunakan bintang (*) untuk bullet point.
4. SPASI: Jangan ada spasi antara simbol formatting dan teks. (Benar: *Halo*, Salah: * Halo *).

STRUKTUR JARKOMAN:
1. Judul Jarkoman (Bold & Uppercase) di dalam kurung siku.
2. Salam pembuka singkat.
3. Detail Acara (Gunakan emoji ikonik 📆 🕐 📍 sebagai bullet).
4. Note/Catatan (Italic).
5. Barang Bawaan (Jika ada, gunakan list angka).
6. Syarat/Info Penting (Bold).

CONTOH OUTPUT SEMPURNA (Tiru format ini):

*[JARKOMAN RAPAT PLENO]*

Halo teman-teman *KOMINFO!*
Mau info nih terkait agenda Rapat Pleno 1.

📆 Tanggal: Senin, 12 Agustus 2024
🕐 Jam: 13.00 WIB
📍 Tempat: _Sekre Utama_
📍 Tikum: Depan Musholla

_note: Harap datang tepat waktu, materi padat._

*Barang bawaan yang wajib dibawa:*
1. Laptop
2. Kabel Roll
3. Uang Kas

⚠️ *Penting:*
Wajib hadir full team dan lunas kas!`

// ChatCompleter is the part of the OpenAI client the broadcast writer needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewChatClient builds an OpenAI compatible client, pointed at Groq unless BaseURL says otherwise.
// It returns nil when no API key is configured.
func NewChatClient(cfg config.AIConfig) ChatCompleter {
	if cfg.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = defaultGroqBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

type eventFinder interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
}

// JarkomanService writes WhatsApp broadcast announcements for events.
type JarkomanService struct {
	client      ChatCompleter
	events      eventFinder
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	model       string
	temperature float32
	timeout     time.Duration
}

// NewJarkomanService constructs a JarkomanService.
func NewJarkomanService(client ChatCompleter, events eventFinder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg config.AIConfig) *JarkomanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	model := cfg.Model
	if model == "" {
		model = defaultJarkomanModel
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultJarkomanTemperature
	}
	return &JarkomanService{
		client:      client,
		events:      events,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		model:       model,
		temperature: temperature,
		timeout:     cfg.Timeout,
	}
}

// Generate asks the model for a broadcast text built from req.
func (s *JarkomanService) Generate(ctx context.Context, req dto.JarkomanRequest) (*dto.JarkomanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Because(appErrors.ErrValidation, err, "invalid jarkoman payload")
	}
	if s.client == nil {
		return nil, appErrors.Because(appErrors.ErrAIFailed, fmt.Errorf("ai client not configured"), "")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: jarkomanSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildJarkomanPrompt(req)},
		},
		Temperature: s.temperature,
	})
	if err != nil {
		s.metrics.ObserveAI("error", time.Since(started))
		s.logger.Error("chat completion failed", zap.String("title", req.Title), zap.Error(err))
		return nil, appErrors.Because(appErrors.ErrAIFailed, err, "")
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if text == "" {
		s.metrics.ObserveAI("empty", time.Since(started))
		text = jarkomanFallbackText
	} else {
		s.metrics.ObserveAI("ok", time.Since(started))
	}
	return &dto.JarkomanResponse{Jarkoman: text}, nil
}

// ForEvent generates the broadcast text for a stored event.
func (s *JarkomanService) ForEvent(ctx context.Context, actor *models.Actor, eventID string) (*dto.JarkomanResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, mapFindError(err, "event")
	}
	return s.Generate(ctx, JarkomanRequestFor(*event))
}

// JarkomanRequestFor renders a stored event the way the admin form fills the request.
func JarkomanRequestFor(event models.Event) dto.JarkomanRequest {
	start := event.Start
	return dto.JarkomanRequest{
		Title:       event.Title,
		Date:        timezone.ToDisplay(&start, jarkomanDateLayout),
		Time:        timezone.ToDisplay(&start, jarkomanTimeLayout) + " WIB",
		Location:    event.Location,
		Description: event.Description,
		Type:        event.ActivityType,
		Proker:      event.Proker.Name,
		Dept:        models.DepartmentName(event.Proker.DepartmentID),
		Logistics:   event.Logistics,
		PIC:         event.PIC,
		Status:      string(event.Status),
		LinkMeeting: event.LinkMeeting,
	}
}

func buildJarkomanPrompt(req dto.JarkomanRequest) string {
	items := strings.TrimSpace(req.Logistics)
	if items == "" || items == "-" {
		items = jarkomanDefaultLogistics
	}

	var b strings.Builder
	b.WriteString("Buatkan jarkoman bersih dengan data ini:\n")
	fmt.Fprintf(&b, "- Departemen: %s\n", req.Dept)
	fmt.Fprintf(&b, "- Judul Acara: %s\n", req.Title)
	fmt.Fprintf(&b, "- Waktu: %s, Jam %s\n", req.Date, req.Time)
	fmt.Fprintf(&b, "- Tempat: %s\n", req.Location)
	fmt.Fprintf(&b, "- Note/Deskripsi: %s\n", req.Description)
	fmt.Fprintf(&b, "- Barang Bawaan: %s\n", items)
	if req.Proker != "" {
		fmt.Fprintf(&b, "- Program Kerja: %s\n", req.Proker)
	}
	if req.Type != "" {
		fmt.Fprintf(&b, "- Jenis Kegiatan: %s\n", req.Type)
	}
	if req.PIC != "" {
		fmt.Fprintf(&b, "- Contact Person: %s\n", req.PIC)
	}
	if req.Status == string(models.EventStatusTentative) {
		b.WriteString("- Status: Tentatif, jadwal masih dapat berubah\n")
	}
	if req.LinkMeeting != "" {
		fmt.Fprintf(&b, "- Link Meeting: %s\n", req.LinkMeeting)
	}
	return b.String()
}
