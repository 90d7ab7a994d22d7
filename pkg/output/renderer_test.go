package output_test

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"testing"

	"github.com/arthur-debert/asprules/pkg/applier"
	"github.com/arthur-debert/asprules/pkg/core"
	"github.com/arthur-debert/asprules/pkg/output"
	"github.com/arthur-debert/asprules/pkg/rules"
	"github.com/arthur-debert/asprules/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want output.Format
	}{
		{"", output.FormatAuto},
		{"JSON", output.FormatJSON},
		{"plain", output.FormatText},
		{"terminal", output.FormatTerminal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := output.ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := output.ParseFormat("xml")
	assert.Error(t, err)
}

func TestRules_Text(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, output.FormatText)

	rs := append(rules.Default(), rules.Rule{Extensions: []string{"md", "markdown"}})
	require.NoError(t, r.Rules("Rules", rs))

	out := buf.String()
	assert.Contains(t, out, "Rules")
	assert.Contains(t, out, "EXTENSIONS")
	assert.Contains(t, out, "知序绘图")
	assert.Contains(t, out, "plugin:zhixu-draw#open")
	assert.Contains(t, out, "md, markdown")
	assert.Contains(t, out, "markdown")
	assert.NotContains(t, out, "\x1b[", "text output has no ANSI codes")
}

func TestRules_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewRenderer(&buf, output.FormatText).Rules("", nil))
	assert.Equal(t, "no rules\n", buf.String())
}

func TestRules_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewRenderer(&buf, output.FormatJSON).Rules("ignored", rules.Default()))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, float64(1), got[0]["index"])
	assert.Equal(t, []interface{}{"zhixu"}, got[0]["extensions"])
	assert.Equal(t, "知序绘图", got[0]["displayName"])
	assert.Equal(t, "zhixu-draw", got[0]["openWith"].(map[string]interface{})["pluginId"])
}

func TestResolutions(t *testing.T) {
	rule := rules.Rule{Extensions: []string{"png"}, OpenWith: rules.Plugin("viewer", "")}
	res := []output.Resolution{
		{File: "a.png", Extension: "png", Rule: &rule},
		{File: "b.txt", Extension: "txt"},
	}

	var text bytes.Buffer
	require.NoError(t, output.NewRenderer(&text, output.FormatText).Resolutions(res))
	assert.Contains(t, text.String(), "plugin:viewer")
	assert.Contains(t, text.String(), "b.txt")

	var js bytes.Buffer
	require.NoError(t, output.NewRenderer(&js, output.FormatJSON).Resolutions(res))
	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	assert.Nil(t, got[1]["rule"])
}

func TestActivation(t *testing.T) {
	res := core.Result{
		Rules: rules.Default(),
		Load:  store.LoadReport{Source: store.SourceStored, Stored: 3, Dropped: 1},
		Apply: applier.Report{
			Registered: 1,
			Failed: []applier.RuleFailure{{
				Index: 1,
				Rule:  rules.Rule{Extensions: []string{"png"}},
				Err:   stderrors.New("plugin missing"),
			}},
		},
	}

	var text bytes.Buffer
	require.NoError(t, output.NewRenderer(&text, output.FormatText).Activation(res))
	assert.Contains(t, text.String(), "source:     stored")
	assert.Contains(t, text.String(), "dropped:    1")
	assert.Contains(t, text.String(), "#2 png: plugin missing")

	var js bytes.Buffer
	require.NoError(t, output.NewRenderer(&js, output.FormatJSON).Activation(res))
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	assert.Equal(t, "stored", got["source"])
	assert.Equal(t, float64(1), got["registered"])
	assert.Len(t, got["failed"], 1)
}

func TestMessageAndError(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, output.FormatJSON)
	require.NoError(t, r.Message("done"))
	require.NoError(t, r.Error(stderrors.New("boom")))
	assert.Equal(t, "{\n  \"message\": \"done\"\n}\n{\n  \"error\": \"boom\"\n}\n", buf.String())
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, output.FormatText, output.Resolve(output.FormatAuto, &buf))
	assert.Equal(t, output.FormatJSON, output.Resolve(output.FormatJSON, &buf))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, output.FormatText, output.Resolve(output.FormatAuto, os.Stdout))
}
