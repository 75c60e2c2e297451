package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/awaketiger/internal/report"
	"github.com/dgallion1/awaketiger/internal/scan"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

var q2 = scan.Quarters{Current: "2023.2Q", Prior: "2022.2Q"}

func message(company, title string, body ...string) []string {
	lines := []string{"2023.08.14 15:30", "회사명: " + company + "(유가증권시장)", title}
	lines = append(lines, body...)
	return append(lines, `<a href="https://dart.fss.or.kr/x">공시</a>`, "https://dart.fss.or.kr/x")
}

func htmlFeed(messages ...[]string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>feed</title></head><body><div class=\"history\">\n")
	for _, m := range messages {
		b.WriteString(`<div class="body"><div class="from_name">DART</div><div class="text">`)
		b.WriteString(strings.Join(m, "<br>\n"))
		b.WriteString("</div></div>\n")
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func xmlFeed(messages ...[]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><html><head><title>feed</title></head><body>`)
	for _, m := range messages {
		b.WriteString(`<div class="body"><div class="from_name">DART</div><div class="text">`)
		for i, line := range m {
			if i > 0 {
				b.WriteString("<br/>")
			}
			if strings.HasPrefix(line, "<a ") {
				b.WriteString(line)
				continue
			}
			b.WriteString(strings.ReplaceAll(line, "&", "&amp;"))
		}
		b.WriteString("</div></div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

var scenario = [][]string{
	message("가나다", "보고서명: 자기주식취득결정", "2023.2Q 1500 300", "2022.2Q 1000 200"),
	message("삼성전자", "보고서명: 연결재무제표기준영업(잠정)실적(공정공시)", "(단위: 억원)", "2023.2Q 1,500 / 300 / 250", "2022.2Q 1,000 / 200 / 150"),
	message("라마바", "보고서명: 주주총회소집결의", "2023.2Q 1500 300", "2022.2Q 1000 200"),
}

func setup(t *testing.T, name, content string) (dir, input, codes string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(input, []byte(content), 0o644))
	codes = filepath.Join(dir, "stockcode.json")
	require.NoError(t, os.WriteFile(codes, []byte(`{"삼성전자": "005930"}`), 0o644))
	return dir, input, codes
}

func job(dir, input, codes string) ScanJob {
	return ScanJob{
		Input:    input,
		Output:   filepath.Join(dir, "output.html"),
		Codes:    codes,
		Quarters: q2,
		Variant:  report.VariantLink,
	}
}

func TestRunScan_FlatHTML(t *testing.T) {
	dir, input, codes := setup(t, "feed.html", htmlFeed(scenario...))

	sum, err := RunScan(context.Background(), job(dir, input, codes), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Blocks)
	assert.Equal(t, 1, sum.Rows)
	assert.Equal(t, 2, sum.Outcomes[scan.OutcomeNotReport])

	out, err := os.ReadFile(filepath.Join(dir, "output.html"))
	require.NoError(t, err)
	html := string(out)
	assert.Equal(t, 1, strings.Count(html, "<tr>"))
	assert.Contains(t, html, `<td class="no">1</td>`)
	assert.Contains(t, html, "회사명: 삼성전자(유가증권시장)")
	assert.Contains(t, html, `stock/005930/news/title">005930</a>`)
	assert.Contains(t, html, "<pre>(단위: 억원)\n2023.2Q 1,500 / 300 / 250\n2022.2Q 1,000 / 200 / 150</pre>")
}

func TestRunScan_NestedXML(t *testing.T) {
	dir, input, codes := setup(t, "feed.xml", xmlFeed(scenario...))
	j := job(dir, input, codes)
	j.Variant = report.VariantCode

	sum, err := RunScan(context.Background(), j, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Rows)

	out, err := os.ReadFile(j.Output)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<td class="news-link">005930</td>`)
	assert.Contains(t, string(out), `<td class="date">2023.08.14 15:30</td>`)
}

func TestRunScan_ProfitDecrease(t *testing.T) {
	feed := htmlFeed(
		scenario[0],
		message("삼성전자", "보고서명: 연결재무제표기준영업(잠정)실적(공정공시)", "2023.2Q 1500 150", "2022.2Q 1000 200"),
		scenario[2],
	)
	dir, input, codes := setup(t, "feed.html", feed)

	sum, err := RunScan(context.Background(), job(dir, input, codes), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Rows)

	out, err := os.ReadFile(filepath.Join(dir, "output.html"))
	require.NoError(t, err)
	assert.Equal(t, "<table></table>", string(out))
}

func TestRunScan_GzipInputAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(htmlFeed(scenario...)))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir, input, codes := setup(t, "feed.html.gz", buf.String())
	j := job(dir, input, codes)
	j.MetricsFile = filepath.Join(dir, "awaketiger.prom")

	sum, err := RunScan(context.Background(), j, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Rows)

	prom, err := os.ReadFile(j.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "awaketiger_rows_total 1")
}

func TestRunScan_MissingInputWritesNothing(t *testing.T) {
	dir, _, codes := setup(t, "feed.html", "")
	j := job(dir, filepath.Join(dir, "missing.html"), codes)

	_, err := RunScan(context.Background(), j, time.Now())
	require.Error(t, err)
	_, statErr := os.Stat(j.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunScan_MissingIndex(t *testing.T) {
	dir, input, _ := setup(t, "feed.html", htmlFeed(scenario...))
	j := job(dir, input, filepath.Join(dir, "absent.json"))

	_, err := RunScan(context.Background(), j, time.Now())
	assert.Error(t, err)
}

func TestRunScan_UnsupportedInput(t *testing.T) {
	dir, input, codes := setup(t, "feed.pdf", "%PDF")
	_, err := RunScan(context.Background(), job(dir, input, codes), time.Now())
	assert.Error(t, err)
}

func TestBuildIndex_EUCKRListing(t *testing.T) {
	listing := `<table><tr><td>회사명</td><td>종목코드</td></tr>` +
		`<tr><td>삼성전자</td><td>005930</td></tr>` +
		`<tr><td>카카오</td><td>035720</td></tr></table>`
	legacy, err := korean.EUCKR.NewEncoder().Bytes([]byte(listing))
	require.NoError(t, err)

	dir := t.TempDir()
	listingPath := filepath.Join(dir, "상장법인목록.xls")
	require.NoError(t, os.WriteFile(listingPath, legacy, 0o644))
	codesPath := filepath.Join(dir, "stockcode.json")

	idx, err := BuildIndex(context.Background(), listingPath, "euc-kr", codesPath)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, "035720", idx.Lookup("카카오"))

	loaded, err := LoadIndex(codesPath)
	require.NoError(t, err)
	assert.Equal(t, "005930", loaded.Lookup("삼성전자"))
}

func TestRunScan_RebuildsIndexFromListing(t *testing.T) {
	dir, input, _ := setup(t, "feed.html", htmlFeed(scenario...))
	listingPath := filepath.Join(dir, "listing.csv")
	require.NoError(t, os.WriteFile(listingPath, []byte("회사명,종목코드\n삼성전자,005930\n"), 0o644))

	j := job(dir, input, filepath.Join(dir, "rebuilt.json"))
	j.Listing = listingPath
	j.ListingEncoding = "utf-8"

	sum, err := RunScan(context.Background(), j, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.IndexSize)

	_, err = os.Stat(j.Codes)
	assert.NoError(t, err)
}

func TestRunScan_LinkLineMarkupIsNotUnescaped(t *testing.T) {
	msg := message("삼성전자", "보고서명: 연결재무제표기준영업(잠정)실적(공정공시)", "2023.2Q 1500 300", "2022.2Q 1000 200")
	msg[len(msg)-2] = "&lt;script&gt;alert(1)&lt;/script&gt;"
	dir, input, codes := setup(t, "feed.html", htmlFeed(msg))

	sum, err := RunScan(context.Background(), job(dir, input, codes), time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, sum.Rows)

	out, err := os.ReadFile(filepath.Join(dir, "output.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
	assert.Contains(t, string(out), `<td class="link">&lt;script&gt;alert(1)&lt;/script&gt;</td>`)
}
