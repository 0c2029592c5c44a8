package parser

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/scipunch/currentcapital/fetcher/types"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Business</title>
    <link>https://example.com/business</link>
    <description>Business news</description>
    <item>
      <title>  Markets rally  </title>
      <link> https://example.com/markets </link>
      <description>Stocks climbed on Monday.</description>
      <pubDate>Mon, 04 Mar 2024 09:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Body in content</title>
      <link>https://example.com/content</link>
      <content:encoded>Only the encoded body is present.</content:encoded>
    </item>
    <item>
      <description>No title and no link</description>
    </item>
  </channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom business</title>
  <id>urn:example:feed</id>
  <updated>2024-03-04T12:00:00Z</updated>
  <entry>
    <title>Markets rally</title>
    <id>urn:example:1</id>
    <link href="https://example.com/markets"/>
    <updated>2024-03-04T09:30:00Z</updated>
    <content type="text">Stocks climbed on Monday.</content>
  </entry>
  <entry>
    <title>Summary only</title>
    <id>urn:example:2</id>
    <link href="https://example.com/summary"/>
    <published>2024-03-03T08:00:00+01:00</published>
    <summary>Short summary text.</summary>
  </entry>
</feed>`

func collect(raw string) []types.RawArticle {
	return slices.Collect(Parse(raw))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Shape
	}{
		{name: "rss", raw: rssFeed, want: RSS},
		{name: "atom", raw: atomFeed, want: Atom},
		{name: "html", raw: "<html><body>hello</body></html>", want: Unknown},
		{name: "plain text", raw: "not a feed", want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.raw); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParse_RSS(t *testing.T) {
	got := collect(rssFeed)
	if len(got) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(got))
	}

	first := types.RawArticle{
		Title:       "Markets rally",
		Link:        "https://example.com/markets",
		Description: "Stocks climbed on Monday.",
		PubDate:     "Mon, 04 Mar 2024 09:30:00 GMT",
	}
	if got[0] != first {
		t.Errorf("Unexpected first item:\n got  %+v\n want %+v", got[0], first)
	}

	if got[1].Description != "Only the encoded body is present." {
		t.Errorf("Expected content fallback for description, got %q", got[1].Description)
	}
	if got[1].PubDate != "" {
		t.Errorf("Expected empty pub date, got %q", got[1].PubDate)
	}

	if got[2].Title != "" || got[2].Link != "" {
		t.Errorf("Expected empty title and link, got %+v", got[2])
	}
}

func TestParse_Atom(t *testing.T) {
	got := collect(atomFeed)
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}

	if got[0].Link != "https://example.com/markets" {
		t.Errorf("Expected href link, got %q", got[0].Link)
	}
	if got[0].PubDate != "2024-03-04T09:30:00Z" {
		t.Errorf("Expected updated timestamp, got %q", got[0].PubDate)
	}
	if got[0].Description != "Stocks climbed on Monday." {
		t.Errorf("Expected content as description, got %q", got[0].Description)
	}

	if got[1].Description != "Short summary text." {
		t.Errorf("Expected summary fallback, got %q", got[1].Description)
	}
	if got[1].PubDate != "2024-03-03T08:00:00+01:00" {
		t.Errorf("Expected published fallback, got %q", got[1].PubDate)
	}
}

func TestParse_AtomMatchesRSS(t *testing.T) {
	rss := collect(rssFeed)[0]
	atom := collect(atomFeed)[0]

	if rss.Title != atom.Title || rss.Link != atom.Link || rss.Description != atom.Description {
		t.Errorf("Expected equivalent items:\n rss  %+v\n atom %+v", rss, atom)
	}
}

func TestParse_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "  \n\t "},
		{name: "garbage", raw: "this is not xml"},
		{name: "html page", raw: "<html><head><title>Oops</title></head></html>"},
		{name: "truncated rss", raw: `<rss version="2.0"><channel><item><title>broken`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(tt.raw); len(got) != 0 {
				t.Errorf("Expected no items, got %d: %+v", len(got), got)
			}
		})
	}
}

func TestParse_StopsEarly(t *testing.T) {
	var seen int
	for range Parse(rssFeed) {
		seen++
		break
	}
	if seen != 1 {
		t.Errorf("Expected iteration to stop after 1 item, got %d", seen)
	}
}

func TestParse_IgnoresDeclaredLegacyCharset(t *testing.T) {
	tests := []struct {
		name string
		decl string
	}{
		{name: "iso-8859-1 double quotes", decl: `<?xml version="1.0" encoding="ISO-8859-1"?>`},
		{name: "windows-1252 single quotes", decl: `<?xml version='1.0' encoding='windows-1252'?>`},
		{name: "no encoding", decl: `<?xml version="1.0"?>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.decl + `<rss version="2.0"><channel><title>Cafés</title>` +
				`<item><title>Café crème</title><link>https://example.com/cafe</link>` +
				`<description>Prix à la hausse</description></item></channel></rss>`

			got := collect(raw)
			if len(got) != 1 {
				t.Fatalf("Expected 1 item, got %d", len(got))
			}
			if got[0].Title != "Café crème" {
				t.Errorf("Expected title %q, got %q", "Café crème", got[0].Title)
			}
			if got[0].Description != "Prix à la hausse" {
				t.Errorf("Expected description %q, got %q", "Prix à la hausse", got[0].Description)
			}
		})
	}
}

func TestAsUTF8(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: `<?xml version="1.0" encoding="ISO-8859-1"?><rss/>`, want: `<?xml version="1.0" encoding="UTF-8"?><rss/>`},
		{in: "\n <?xml version='1.0' encoding = 'koi8-r' ?><feed/>", want: "\n <?xml version='1.0' encoding = \"UTF-8\" ?><feed/>"},
		{in: `<?xml version="1.0"?><rss/>`, want: `<?xml version="1.0"?><rss/>`},
		{in: `<rss><title>encoding="latin1"</title></rss>`, want: `<rss><title>encoding="latin1"</title></rss>`},
	}

	for _, tt := range tests {
		if got := asUTF8(tt.in); got != tt.want {
			t.Errorf("asUTF8(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_DecodesEntitiesInTitles(t *testing.T) {
	raw := `<rss version="2.0"><channel><title>T</title>` +
		`<item><title><![CDATA[Tom &amp; Jerry]]></title><link>https://example.com/tj</link></item>` +
		`</channel></rss>`

	got := collect(raw)
	if len(got) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(got))
	}
	if got[0].Title != "Tom & Jerry" {
		t.Errorf("Expected decoded title %q, got %q", "Tom & Jerry", got[0].Title)
	}
}

func TestParse_LogsAttributes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	Parse(`<rss version="2.0"><channel><item><title>broken`, "url", "https://example.com/broken")
	Parse("garbage", "url", "https://example.com/garbage")

	out := buf.String()
	for _, want := range []string{"url=https://example.com/broken", "url=https://example.com/garbage"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q, got:\n%s", want, out)
		}
	}
}
