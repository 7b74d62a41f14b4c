package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/spam-triage/pkg/amocrm"
)

func samplePipelines() []amocrm.Pipeline {
	return []amocrm.Pipeline{
		{
			ID: 7, Name: "Продажи", IsMain: true,
			Embedded: amocrm.PipelineEmbedded{Statuses: []amocrm.Status{
				{ID: 100, Name: "Первичный контакт"},
				{ID: 142, Name: "СПАМ / на удаление"},
			}},
		},
		{
			ID: 8, Name: "Партнёры",
			Embedded: amocrm.PipelineEmbedded{Statuses: []amocrm.Status{{ID: 200, Name: "Новые"}}},
		},
	}
}

func TestIsSpamStatus(t *testing.T) {
	assert.True(t, isSpamStatus("СПАМ"))
	assert.True(t, isSpamStatus("Это спам"))
	assert.False(t, isSpamStatus("Новые"))
}

func TestFormatPipelines(t *testing.T) {
	var buf bytes.Buffer
	formatPipelines(&buf, samplePipelines())

	out := buf.String()
	assert.Contains(t, out, "Продажи (main)")
	assert.Contains(t, out, "<- spam")
	assert.Contains(t, out, "AMOCRM_SPAM_STATUS_ID=142")
	assert.Contains(t, out, "AMOCRM_SPAM_PIPELINE_ID=7")
}

func TestFormatPipelines_NoSpamStatus(t *testing.T) {
	var buf bytes.Buffer
	formatPipelines(&buf, samplePipelines()[1:])
	assert.Contains(t, buf.String(), "No spam status found")
}

func TestWritePipelinesYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePipelinesYAML(&buf, samplePipelines()))

	var doc struct {
		Pipelines []yamlPipeline `yaml:"pipelines"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Pipelines, 2)
	assert.True(t, doc.Pipelines[0].Main)
	assert.True(t, doc.Pipelines[0].Statuses[1].Spam)
	assert.False(t, doc.Pipelines[1].Statuses[0].Spam)
}
