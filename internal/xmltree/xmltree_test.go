package xmltree

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	root := New("ODM").Attr("xmlns", "http://www.cdisc.org/ns/odm/v1.3").Attr("Empty", "")
	study := New("Study").Attr("OID", "S&1")
	study.Add(New("StudyName").SetText("A <b> \"c\""), nil, New("Empty"))
	root.Add(study)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, root, "define2-1.xsl"))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<?xml-stylesheet type="text/xsl" href="define2-1.xsl"?>
<ODM xmlns="http://www.cdisc.org/ns/odm/v1.3">
  <Study OID="S&amp;1">
    <StudyName>A &lt;b&gt; &#34;c&#34;</StudyName>
    <Empty/>
  </Study>
</ODM>
`
	assert.Equal(t, want, buf.String())

	var parsed struct {
		XMLName xml.Name
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "ODM", parsed.XMLName.Local)
}

func TestAttrReplacesAndGet(t *testing.T) {
	e := New("x").Attr("a", "1").Attr("b", "2").Attr("a", "3")
	assert.Equal(t, []Attr{{"a", "3"}, {"b", "2"}}, e.Attrs)
	v, ok := e.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok = e.Get("c")
	assert.False(t, ok)
}

func TestWalkAndCount(t *testing.T) {
	root := New("a").Add(New("b").Add(New("c")), New("c"))
	var names []string
	root.Walk(func(e *Element) { names = append(names, e.Name) })
	assert.Equal(t, []string{"a", "b", "c", "c"}, names)
	assert.Equal(t, 2, root.Count("c"))
}
