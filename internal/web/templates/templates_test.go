package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/JonMunkholm/cleanmind/internal/notify"
	"github.com/JonMunkholm/cleanmind/internal/view"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboard_Empty(t *testing.T) {
	html := render(t, Dashboard(DashboardParams{Phase: "idle", Accept: ".csv,.tsv"}))

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `accept=".csv,.tsv"`)
	assert.Contains(t, html, "Upload a dataset to see its profile.")
	assert.Contains(t, html, "No score yet.")
	assert.Contains(t, html, `aria-disabled="true"`)
	assert.Contains(t, html, `class="toast hidden"`)
	assert.NotContains(t, html, " disabled>")
}

func TestDashboard_RunningDisablesUpload(t *testing.T) {
	html := render(t, Dashboard(DashboardParams{Phase: "uploading", Running: true}))

	assert.Contains(t, html, `type="submit" disabled>`)
	assert.Contains(t, html, `<span class="muted" id="phase">uploading</span>`)
}

func TestPanels_EscapeBackendText(t *testing.T) {
	html := render(t, ProfilePanel(&view.ProfileView{
		DatasetID: "d1",
		Rows:      3,
		Cols:      1,
		Columns:   []view.ColumnView{{Name: "<b>x</b>", DType: "object"}},
	}))
	assert.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
	assert.NotContains(t, html, "<b>x</b>")

	html = render(t, CleaningPanel(&view.CleaningView{
		SourceDatasetID: "d1",
		RowsBefore:      10,
		RowsAfter:       8,
		PreviewHeader:   []string{"name"},
		PreviewRows:     [][]string{{"<script>"}},
	}, true))
	assert.Contains(t, html, "<td>&lt;script&gt;</td>")
	assert.Contains(t, html, "Rows: 10 → 8")
	assert.Contains(t, html, `href="/download"`)
}

func TestQualityPanel_Badge(t *testing.T) {
	html := render(t, QualityPanel(&view.QualityView{
		Score: "97.3", Scale: "/ 100", Grade: "Excellent", Tone: view.ToneExcellent,
		Missing: "2.00%", Duplicate: "0.00%", Constant: "0.00%",
	}))

	assert.Contains(t, html, `<span class="score">97.3</span>`)
	assert.Contains(t, html, `class="badge badge-excellent"`)
	assert.Contains(t, html, "<li>Missing values: <strong>2.00%</strong></li>")
}

func TestToast_Severity(t *testing.T) {
	html := render(t, Toast(&notify.Notification{Message: "db down", Severity: notify.Error}))
	assert.Equal(t, `<div id="toast" role="status" class="toast toast-error">db down</div>`, html)

	html = render(t, Toast(&notify.Notification{Message: "ok", Severity: notify.Info}))
	assert.Contains(t, html, `class="toast">ok</div>`)
}

func TestErrorPage(t *testing.T) {
	html := render(t, ErrorPage("No cleaned dataset", "", "STATE001"))

	assert.Contains(t, html, "<h2>No cleaned dataset</h2>")
	assert.Contains(t, html, "Error code: STATE001")
	assert.NotContains(t, html, "<p></p>")
}
