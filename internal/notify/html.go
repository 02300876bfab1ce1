package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const reportHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Market Research Report</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
      line-height: 1.6;
      color: #333;
      max-width: 800px;
      margin: 0 auto;
      padding: 20px;
      background-color: #f8f9fa;
    }
    .header {
      background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
      color: white;
      padding: 30px;
      border-radius: 10px;
      text-align: center;
      margin-bottom: 30px;
      box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
    }
    .header h1 {
      margin: 0;
      font-size: 28px;
      font-weight: 600;
    }
    .header .date {
      margin: 10px 0 0 0;
      font-size: 16px;
      opacity: 0.9;
    }
    .content {
      background: white;
      border-radius: 10px;
      padding: 30px;
      box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
    }
    .footer {
      text-align: center;
      margin-top: 30px;
      padding: 20px;
      background: #f8f9fa;
      border-radius: 10px;
      font-size: 12px;
      color: #6c757d;
    }
  </style>
</head>
<body>
  <div class="header">
    <h1>📊 Market Research Report</h1>
    <div class="date">{{.Date}}</div>
  </div>

  <div class="content">
    {{.Content}}
  </div>

  <div class="footer">
    <p>This report was generated automatically by your Market Research Agent.</p>
    <p>Powered by Financial Modeling Prep API &amp; Groq AI</p>
  </div>
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportHTMLTemplate))

// RenderHTML converts the markdown briefing into the styled report shell
// used for the email body.
func RenderHTML(analysis string, now time.Time) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	content := markdown.ToHTML([]byte(analysis), p, renderer)

	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, struct {
		Date    string
		Content template.HTML
	}{
		Date:    now.Format("January 2, 2006"),
		Content: template.HTML(content),
	})
	if err != nil {
		// Template is static and the data is two fields; execution can
		// only fail on a writer error, which bytes.Buffer never returns.
		return fmt.Sprintf("<html><body><pre>%s</pre></body></html>", template.HTMLEscapeString(analysis))
	}
	return buf.String()
}
