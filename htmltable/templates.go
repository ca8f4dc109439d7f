package htmltable

import "html/template"

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <thead><tr>{{range $cell := .RawCells}}<th>{{$cell}}</th>{{end}}</tr></thead>\n" +
		"{{else}}" +
		"{{if .IsFirstBodyRow}}  <tbody>\n{{end}}" +
		"    <tr>{{range $cell := .RawCells}}<td>{{$cell}}</td>{{end}}</tr>\n" +
		"{{if .IsLastBodyRow}}  </tbody>\n{{end}}" +
		"{{end}}",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>\n",
	))
)

type TemplateContext struct {
	TableClass string
	Caption    string
}

type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow    bool
	IsFirstBodyRow bool
	IsLastBodyRow  bool
	// RowIndex is the visual index of the row
	// or -1 for the header row.
	RowIndex int
	RawCells []template.HTML
}
