package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as Markdown tables.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Encode Summary"))
	fmt.Fprintf(&b, "- %s: %s\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if s.SessionID != "" {
		fmt.Fprintf(&b, "- %s: `%s`\n", t("Session"), s.SessionID)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	f.tableHeader(&b)
	f.row(&b, "File", s.Input.Path)
	f.row(&b, "Pixel Format", strings.ToUpper(s.Input.Format))
	f.row(&b, "Dimensions", fmt.Sprintf("%dx%d", s.Input.Width, s.Input.Height))
	f.row(&b, "Frame Count", fmt.Sprintf("%d", s.Input.FrameCount))
	f.row(&b, "Input Size", formatBytes(s.Input.TotalBytes))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Encoding"))
	f.tableHeader(&b)
	codec := s.Encoding.Codec
	if s.Encoding.MIMEType != "" {
		codec = fmt.Sprintf("%s (%s)", codec, s.Encoding.MIMEType)
	}
	f.row(&b, "Codec", codec)
	f.row(&b, "Frame Rate", fmt.Sprintf("%.2f fps", s.Encoding.FPS))
	f.row(&b, "Bitrate", formatBitrate(s.Encoding.Bitrate))
	f.row(&b, "Keyframe Interval", fmt.Sprintf("%g s", s.Encoding.KeyframeInterval))
	f.row(&b, "Access Units", fmt.Sprintf("%d", s.Encoding.AccessUnits))
	f.row(&b, "Keyframes", fmt.Sprintf("%d", s.Encoding.Keyframes))
	f.row(&b, "Stream Duration", fmt.Sprintf("%d ms", s.Encoding.DurationUs/1000))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Outputs"))
	if len(s.Outputs) == 0 {
		fmt.Fprintf(&b, "%s\n\n", t("None"))
	} else {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t("Kind"), t("Path"), t("Size"))
		b.WriteString("|------|------|------|\n")
		for _, o := range s.Outputs {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", t(o.Kind), o.Path, formatBytes(o.Size))
		}
		b.WriteString("\n")
	}

	if s.Elapsed > 0 {
		fmt.Fprintf(&b, "%s: %s\n\n", t("Elapsed"), s.Elapsed.Round(time.Millisecond))
	}

	b.WriteString("---\n\n")
	if f.version != "" {
		fmt.Fprintf(&b, "%s yuvenc %s\n", t("Generated by"), f.version)
	} else {
		fmt.Fprintf(&b, "%s yuvenc\n", t("Generated by"))
	}

	return b.String()
}

func (f *MarkdownFormatter) tableHeader(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|------|-------|\n")
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), value)
}

func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n >= unit*unit*unit:
		return fmt.Sprintf("%.2f GB", float64(n)/(unit*unit*unit))
	case n >= unit*unit:
		return fmt.Sprintf("%.2f MB", float64(n)/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%.2f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func formatBitrate(bps int) string {
	switch {
	case bps >= 1000000:
		return fmt.Sprintf("%.2f Mbps", float64(bps)/1e6)
	case bps >= 1000:
		return fmt.Sprintf("%.2f kbps", float64(bps)/1e3)
	default:
		return fmt.Sprintf("%d bps", bps)
	}
}

var _ Formatter = (*MarkdownFormatter)(nil)
