// Package export renders the in-memory transcript sequence into
// downloadable artifacts. Export never mutates session state; repeated
// calls over the same sequence produce equivalent output modulo the
// export timestamp.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Mide6x/wilberforceDemoFE/internal/domain"
	"github.com/Mide6x/wilberforceDemoFE/internal/languages"
)

// Artifact is one rendered export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter renders transcripts for one session's point of view.
type Exporter struct {
	RoomCode string
	Role     domain.Role
	Language string

	// Now is swappable for deterministic tests.
	Now func() time.Time
}

// Export renders entries in the requested format.
func (e Exporter) Export(format domain.ExportFormat, entries []domain.TranscriptEntry) (Artifact, error) {
	switch format {
	case domain.ExportText:
		return e.text(entries), nil
	case domain.ExportJSON:
		return e.structured(entries)
	case domain.ExportPDF:
		return e.pdf(entries)
	default:
		return Artifact{}, fmt.Errorf("unsupported export format: %q", format)
	}
}

// effectiveLanguage labels the exported text: listeners export their
// chosen language, preachers always export the original English.
func (e Exporter) effectiveLanguage() string {
	if e.Role == domain.RoleListener && e.Language != "" {
		return e.Language
	}
	return languages.Default
}

func (e Exporter) filename(ext string) string {
	return fmt.Sprintf("sermon-transcript-%s-%s.%s", e.RoomCode, e.effectiveLanguage(), ext)
}

func (e Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Exporter) text(entries []domain.TranscriptEntry) Artifact {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		timestamp := entry.CreatedAt.Format("15:04:05")
		lines = append(lines, fmt.Sprintf("[%s] %s", timestamp, entry.DisplayText(e.Role)))
	}

	return Artifact{
		Filename:    e.filename("txt"),
		ContentType: "text/plain",
		Data:        []byte(strings.Join(lines, "\n\n")),
	}
}

type structuredDocument struct {
	RoomCode     string            `json:"roomCode"`
	Language     string            `json:"language"`
	Role         domain.Role       `json:"role"`
	DownloadedAt time.Time         `json:"downloadedAt"`
	Transcripts  []structuredEntry `json:"transcripts"`
}

type structuredEntry struct {
	ID             int       `json:"id"`
	OriginalText   string    `json:"originalText"`
	TranslatedText string    `json:"translatedText,omitempty"`
	Language       string    `json:"language"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e Exporter) structured(entries []domain.TranscriptEntry) (Artifact, error) {
	doc := structuredDocument{
		RoomCode:     e.RoomCode,
		Language:     e.effectiveLanguage(),
		Role:         e.Role,
		DownloadedAt: e.now().UTC(),
		Transcripts:  make([]structuredEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		doc.Transcripts = append(doc.Transcripts, structuredEntry{
			ID:             entry.ID,
			OriginalText:   entry.OriginalText,
			TranslatedText: entry.TranslatedText,
			Language:       entry.Language,
			Timestamp:      entry.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to encode transcript document: %w", err)
	}
	return Artifact{
		Filename:    e.filename("json"),
		ContentType: "application/json",
		Data:        data,
	}, nil
}

func (e Exporter) pdf(entries []domain.TranscriptEntry) (Artifact, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Sermon Transcript - Room %s", e.RoomCode), false)
	doc.SetAuthor("Wilberforce Academy", false)
	doc.SetCreator("Wilberforce Academy Transcription System", false)
	doc.AddPage()

	_, pageHeight := doc.GetPageSize()
	const margin = 20.0
	const lineHeight = 7.0

	doc.SetFont("Helvetica", "B", 20)
	doc.Text(margin, 20, "Wilberforce Academy Creative Night")
	doc.SetFontSize(16)
	doc.Text(margin, 30, "Sermon Transcript")

	doc.SetFont("Helvetica", "", 12)
	doc.Text(margin, 45, "Room Code: "+e.RoomCode)
	doc.Text(margin, 52, "Language: "+languages.Name(e.effectiveLanguage()))
	doc.Text(margin, 59, "Downloaded: "+e.now().Format("2006-01-02 15:04:05"))
	doc.Line(margin, 65, 190, 65)

	y := 75.0
	for _, entry := range entries {
		if y > pageHeight-50 {
			doc.AddPage()
			y = 20
		}

		doc.SetFont("Helvetica", "B", 10)
		doc.Text(margin, y, "["+entry.CreatedAt.Format("15:04:05")+"]")
		y += 12

		doc.SetFont("Helvetica", "", 11)
		for _, line := range doc.SplitText(entry.DisplayText(e.Role), 150) {
			if y > pageHeight-30 {
				doc.AddPage()
				y = 20
			}
			doc.Text(margin, y, line)
			y += lineHeight
		}
		y += 8
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("failed to render transcript document: %w", err)
	}
	return Artifact{
		Filename:    e.filename("pdf"),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}
