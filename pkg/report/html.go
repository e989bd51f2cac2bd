package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"hours": FormatHours,
}).Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #212529; }
h1 { color: #0033A1; }
table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
th, td { border: 1px solid #dee2e6; padding: 8px; text-align: left; }
th { background-color: #f8f9fa; }
.total td { font-weight: bold; }
.placeholder td { color: #6c757d; font-style: italic; }
.footer { margin-top: 30px; font-size: 0.9em; color: #6c757d; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Период: {{.Period}}</p>

<h2>Статистика по категориям</h2>
<table>
<thead><tr><th>Категория</th><th>Затраченное время</th></tr></thead>
<tbody>
{{- range .Summary}}
<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{- end}}
</tbody>
</table>

<h2>Детализация задач</h2>
<table>
<thead><tr><th>Дата</th><th>Начало</th><th>Окончание</th><th>Задача</th><th>Описание</th><th>Затрачено</th></tr></thead>
<tbody>
{{- range .Tasks}}
<tr{{if .Sentinel}} class="placeholder"{{end}}><td>{{.Date}}</td><td>{{.Start}}</td><td>{{.End}}</td><td>{{.Title}}</td><td>{{.Description}}</td><td>{{hours .Hours}}</td></tr>
{{- end}}
<tr class="total"><td colspan="5">Общее время:</td><td>{{hours .TotalHours}}</td></tr>
{{- with .PlannedHours}}
<tr class="total"><td colspan="5">Плановое время:</td><td>{{hours .}}</td></tr>
{{- end}}
</tbody>
</table>

<div class="footer">Отчёт сгенерирован {{.GeneratedAt}}</div>
</body>
</html>
`))

// HTMLRenderer serializes a Document into a standalone page. Every value taken
// from user data is escaped by the template engine.
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) Render(_ context.Context, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("executing report template: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) Extension() string {
	return ".html"
}
