package services

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

const (
	shareCardWidth  = 1200
	shareCardHeight = 630
	shareCardMargin = 80
)

type ShareService interface {
	Text(dbc dbctx.Context, entryID uuid.UUID, loc *time.Location) (string, error)
	Card(dbc dbctx.Context, entryID uuid.UUID, loc *time.Location) ([]byte, error)
}

type shareService struct {
	log     *logger.Logger
	entries EntryService
	faces   cardFaces
	now     func() time.Time
}

// cardFaces holds the title and body faces. Bitmap faces are drawn scaled.
type cardFaces struct {
	title      font.Face
	body       font.Face
	titleScale float64
	bodyScale  float64
}

// NewShareService loads fontPath when set and otherwise falls back to the
// built-in bitmap face.
func NewShareService(log *logger.Logger, entries EntryService, fontPath string) (ShareService, error) {
	serviceLog := log.With("service", "ShareService")
	faces := cardFaces{
		title:      basicfont.Face7x13,
		body:       basicfont.Face7x13,
		titleScale: 6,
		bodyScale:  3,
	}
	if strings.TrimSpace(fontPath) != "" {
		serviceLog.Info("Loading share card font", "font", fontPath)
		title, err := loadFontFace(fontPath, 72)
		if err != nil {
			return nil, fmt.Errorf("could not load share card font: %w", err)
		}
		body, err := loadFontFace(fontPath, 36)
		if err != nil {
			return nil, fmt.Errorf("could not load share card font: %w", err)
		}
		faces = cardFaces{title: title, body: body, titleScale: 1, bodyScale: 1}
	}
	return &shareService{
		log:     serviceLog,
		entries: entries,
		faces:   faces,
		now:     time.Now,
	}, nil
}

func (ss *shareService) load(dbc dbctx.Context, entryID uuid.UUID, loc *time.Location) (*insights.Entry, int, error) {
	entry, err := ss.entries.Get(dbc, entryID)
	if err != nil {
		return nil, 0, err
	}
	all, err := ss.entries.List(dbc)
	if err != nil {
		return nil, 0, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return entry, insights.CurrentStreakDays(all, ss.now().In(loc)), nil
}

func (ss *shareService) Text(dbc dbctx.Context, entryID uuid.UUID, loc *time.Location) (string, error) {
	entry, streak, err := ss.load(dbc, entryID, loc)
	if err != nil {
		return "", err
	}
	return insights.ShareText(*entry, streak), nil
}

func (ss *shareService) Card(dbc dbctx.Context, entryID uuid.UUID, loc *time.Location) ([]byte, error) {
	entry, streak, err := ss.load(dbc, entryID, loc)
	if err != nil {
		return nil, err
	}
	buf, err := ss.render(*entry, streak)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (ss *shareService) render(e insights.Entry, streak int) (bytes.Buffer, error) {
	dc := gg.NewContext(shareCardWidth, shareCardHeight)

	dc.SetColor(colorForTag(e.Mood.ColorTag))
	dc.DrawRectangle(0, 0, shareCardWidth, shareCardHeight)
	dc.Fill()

	dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 160})
	dc.DrawRoundedRectangle(shareCardMargin/2, shareCardMargin/2, shareCardWidth-shareCardMargin, shareCardHeight-shareCardMargin, 32)
	dc.Fill()

	ink := color.NRGBA{R: 30, G: 41, B: 59, A: 255}
	dc.SetColor(ink)
	ss.drawText(dc, ss.faces.title, ss.faces.titleScale, "Feeling "+e.Mood.Label, shareCardMargin, 200, 0)

	if note := strings.Join(strings.Fields(e.Note), " "); note != "" {
		width := float64(shareCardWidth - 2*shareCardMargin)
		ss.drawText(dc, ss.faces.body, ss.faces.bodyScale, "\""+note+"\"", shareCardMargin, 300, width)
	}
	if streak >= 2 {
		ss.drawText(dc, ss.faces.body, ss.faces.bodyScale, fmt.Sprintf("%d days of checking in", streak), shareCardMargin, shareCardHeight-130, 0)
	}
	ss.drawText(dc, ss.faces.body, ss.faces.bodyScale, "#Moodly #MoodJournal", shareCardMargin, shareCardHeight-80, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// drawText draws s with its top-left at (x, y). A positive width wraps the
// text and clips it to four lines.
func (ss *shareService) drawText(dc *gg.Context, face font.Face, scale float64, s string, x, y, width float64) {
	dc.Push()
	defer dc.Pop()
	dc.SetFontFace(face)
	dc.Scale(scale, scale)
	x, y = x/scale, y/scale
	if width <= 0 {
		dc.DrawStringAnchored(s, x, y, 0, 1)
		return
	}
	lines := dc.WordWrap(s, width/scale)
	if len(lines) > 4 {
		lines = lines[:4]
		lines[3] = strings.TrimSpace(lines[3]) + "…"
	}
	lineHeight := dc.FontHeight() * 1.4
	for i, line := range lines {
		dc.DrawStringAnchored(line, x, y+float64(i)*lineHeight, 0, 1)
	}
}

var tagColors = map[string]color.NRGBA{
	"green":  {R: 220, G: 252, B: 231, A: 255},
	"blue":   {R: 219, G: 234, B: 254, A: 255},
	"indigo": {R: 224, G: 231, B: 255, A: 255},
	"slate":  {R: 241, G: 245, B: 249, A: 255},
	"gray":   {R: 243, G: 244, B: 246, A: 255},
	"red":    {R: 254, G: 226, B: 226, A: 255},
	"purple": {R: 243, G: 232, B: 255, A: 255},
	"amber":  {R: 254, G: 243, B: 199, A: 255},
	"orange": {R: 255, G: 237, B: 213, A: 255},
	"yellow": {R: 254, G: 249, B: 195, A: 255},
	"pink":   {R: 252, G: 231, B: 243, A: 255},
	"teal":   {R: 204, G: 251, B: 241, A: 255},
}

// colorForTag reads the colour family from the first bg-<family>-<shade> class.
// Unknown tags render slate.
func colorForTag(tag string) color.NRGBA {
	for _, class := range strings.Fields(tag) {
		if !strings.HasPrefix(class, "bg-") {
			continue
		}
		parts := strings.Split(strings.TrimPrefix(class, "bg-"), "-")
		if c, ok := tagColors[parts[0]]; ok {
			return c
		}
	}
	return tagColors["slate"]
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
