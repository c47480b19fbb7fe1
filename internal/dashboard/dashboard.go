// Package dashboard renders the read-only HTML overview of samples and
// uploaded videos.
package dashboard

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/models"
)

type Page struct {
	Title       string
	GeneratedAt time.Time
	Samples     []*models.Sample
	Videos      []*models.Video
	ExportLimit int64
}

var funcs = template.FuncMap{
	"downloadURL": func(v *models.Video) string {
		return "/download-video/" + url.PathEscape(v.UserID) + "/" + url.PathEscape(v.Filename)
	},
	"size": humanSize,
	"ts": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04:05 UTC")
	},
	"opt": func(v any) any {
		switch p := v.(type) {
		case *int:
			if p != nil {
				return *p
			}
		case *string:
			if p != nil {
				return *p
			}
		case *float64:
			if p != nil {
				return fmt.Sprintf("%.5f", *p)
			}
		}
		return "-"
	},
}

var page = template.Must(template.New("dashboard").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2rem;color:#222}
table{border-collapse:collapse;width:100%;margin-bottom:2rem}
th,td{border:1px solid #ccc;padding:.4rem .6rem;text-align:left;font-size:.9rem}
th{background:#f4f4f4}
.empty{color:#888}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{ts .GeneratedAt}} &middot;
<a href="/export?format=json&amp;limit={{.ExportLimit}}">Export JSON</a> &middot;
<a href="/export?format=yaml&amp;limit={{.ExportLimit}}">Export YAML</a></p>

<h2>Samples ({{len .Samples}})</h2>
{{if .Samples}}<table>
<tr><th>Created</th><th>User</th><th>Sentiment</th><th>Activity</th><th>Latitude</th><th>Longitude</th><th>Video</th></tr>
{{range .Samples}}<tr><td>{{.CreatedAt}}</td><td>{{.UserID}}</td><td>{{opt .Sentiment}}</td><td>{{opt .Activity}}</td><td>{{opt .Latitude}}</td><td>{{opt .Longitude}}</td><td>{{opt .VideoURI}}</td></tr>
{{end}}</table>{{else}}<p class="empty">No samples yet.</p>{{end}}

<h2>Videos ({{len .Videos}})</h2>
{{if .Videos}}<table>
<tr><th>Filename</th><th>User</th><th>Size</th><th>Uploaded</th><th></th></tr>
{{range .Videos}}<tr><td>{{.Filename}}</td><td>{{.UserID}}</td><td>{{size .SizeBytes}}</td><td>{{ts .UploadedAt}}</td><td><a href="{{downloadURL .}}">download</a></td></tr>
{{end}}</table>{{else}}<p class="empty">No videos yet.</p>{{end}}
</body>
</html>
`))

func Render(w io.Writer, p Page) error {
	return page.Execute(w, p)
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
