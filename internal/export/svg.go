package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/perhabs/internal/render"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SceneToSVG renders a scene into a square SVG of the given pixel size.
// Multiply layers use the CSS mix-blend-mode so red and cyan stimuli keep
// their overlap when printed or viewed in a browser.
func SceneToSVG(s *render.Scene, size int) string {
	if s == nil || size <= 0 {
		return ""
	}
	px := float64(size)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, hex(s.Background)))

	for _, l := range s.Layers {
		if l.Blend == render.BlendMultiply {
			sb.WriteString(`<g style="mix-blend-mode:multiply">` + "\n")
		} else {
			sb.WriteString("<g>\n")
		}
		for _, r := range l.Rects {
			paint := fmt.Sprintf(`fill="none" stroke="%s"`, hex(r.Color))
			if r.Filled {
				paint = fmt.Sprintf(`fill="%s"`, hex(r.Color))
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>
`, r.Bounds.Min.X*px, r.Bounds.Min.Y*px, r.Bounds.Size.X*px, r.Bounds.Size.Y*px, paint))
		}
		for _, c := range l.Circles {
			paint := fmt.Sprintf(`fill="none" stroke="%s"`, hex(c.Color))
			if c.Filled {
				paint = fmt.Sprintf(`fill="%s"`, hex(c.Color))
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" %s/>
`, c.Center.X*px, c.Center.Y*px, c.Radius*px, paint))
		}
		for _, ln := range l.Lines {
			sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>
`, ln.From.X*px, ln.From.Y*px, ln.To.X*px, ln.To.Y*px, hex(ln.Color)))
		}
		sb.WriteString("</g>\n")
	}

	for _, t := range s.Texts {
		sb.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" font-size="%.2f" fill="%s" text-anchor="middle" font-family="sans-serif">%s</text>
`, t.Pos.X*px, t.Pos.Y*px, t.Size*px, hex(t.Color), escape(t.Body)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return escaper.Replace(s) }

// TrendToSVG plots the running average of per-repetition scores. Scores are
// expected in 0..1 and the vertical axis is fixed to that range.
func TrendToSVG(scores []float64, width, height int, strokeColor string) string {
	if len(scores) < 2 {
		return ""
	}

	w, h := float64(width), float64(height)
	pad := 0.05 * h

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333333"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, h/2, width, h/2, strokeColor))

	sum := 0.0
	for i, s := range scores {
		sum += s
		avg := sum / float64(i+1)
		x := float64(i) / float64(len(scores)-1) * w
		y := h - pad - avg*(h-2*pad)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
