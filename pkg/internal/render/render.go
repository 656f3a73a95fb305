// Package render 把分析结果排版为 HAZOP PDF 报告，不做任何 I/O.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/yeisme/hazopvault/pkg/internal/model"
)

// ErrRenderFailed 排版或输出 PDF 失败.
var ErrRenderFailed = errors.New("render failed")

const (
	// Title 报告标题.
	Title = "HAZOP Analysis Report"

	titleSize   = 20.0
	headingSize = 16.0
	bodySize    = 12.0
	margin      = 50.0
)

// Options 渲染选项.
type Options struct {
	Compress bool
	Author   string
}

// Renderer 生成 PDF 字节，同一分析的输出逐字节一致.
type Renderer struct {
	opts Options
}

// New 创建 Renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render 按固定版式输出报告：标题、识别到的元件、安全问题.
func (r *Renderer) Render(a model.Analysis) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.opts.Compress)
	pdf.SetCatalogSort(true)
	created := a.CreatedAt.UTC()
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetTitle(Title, true)
	pdf.SetSubject(a.ID, true)

	if r.opts.Author != "" {
		pdf.SetAuthor(r.opts.Author, true)
		pdf.SetCreator(r.opts.Author, true)
	}

	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	// 核心字体为 cp1252 编码.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", titleSize)
	pdf.CellFormat(0, titleSize*1.2, tr(Title), "", 1, "C", false, 0, "")
	pdf.Ln(bodySize)

	heading(pdf, "Detected Components:")

	for _, c := range a.Components {
		line(pdf, tr(ComponentLine(c)))
	}

	pdf.Ln(bodySize)
	heading(pdf, "Safety Issues:")

	for _, s := range a.SafetyIssues {
		line(pdf, tr(IssueLine(s)))
		line(pdf, tr(DescriptionLine(s)))
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return buf.Bytes(), nil
}

// ComponentLine 元件行，置信度按百分比保留两位小数.
func ComponentLine(c model.Component) string {
	return fmt.Sprintf("- %s (%.2f%% confidence)", c.Type, c.Confidence*100)
}

// IssueLine 安全问题行.
func IssueLine(s model.SafetyIssue) string {
	return fmt.Sprintf("- %s (%s severity)", s.Type, s.Severity)
}

// DescriptionLine 安全问题描述行.
func DescriptionLine(s model.SafetyIssue) string {
	return "  Description: " + s.Description
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", headingSize)
	pdf.CellFormat(0, headingSize*1.2, text, "", 1, "L", false, 0, "")
	pdf.Ln(bodySize / 2)
}

func line(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.MultiCell(0, bodySize*1.25, text, "", "L", false)
}
