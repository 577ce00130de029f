package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrescription(t *testing.T) {
	res := newExtractor().Extract("  Amoxicillin 500mg PO three times daily; ibuprofen 200 mg orally as needed  ")

	assert.Equal(t, []string{"Amoxicillin", "Ibuprofen"}, res.Medications)
	assert.Equal(t, []string{"500mg", "200 mg"}, res.Doses)
	assert.Equal(t, []string{"po", "orally"}, res.Routes)
	assert.Equal(t, []string{"three times daily", "as needed"}, res.Frequencies)
	assert.Equal(t, "Amoxicillin 500mg PO three times daily; ibuprofen 200 mg orally as needed", res.RawText)
}

func TestExtractDeduplicatesCaseInsensitively(t *testing.T) {
	res := newExtractor().Extract("Metformin 500mg BID. metformin 500MG bid")

	assert.Equal(t, []string{"Metformin"}, res.Medications)
	assert.Equal(t, []string{"500mg"}, res.Doses)
	assert.Equal(t, []string{"bid"}, res.Frequencies)
}

func TestExtractMatchesWholeWordsOnly(t *testing.T) {
	res := newExtractor().Extract("Simple improvement, nothing prescribed")

	assert.Empty(t, res.Routes, "im inside a word is not a route")
	assert.Empty(t, res.Medications)
	assert.NotNil(t, res.Doses)
}

func TestImageText(t *testing.T) {
	assert.Equal(t, "Lisinopril 10mg once daily\n", imageText([]byte("Lisinopril 10mg once daily\n")))
	assert.Equal(t, textractMissing, imageText([]byte{0x89, 'P', 'N', 'G', 0x00}))
	assert.Equal(t, textractMissing, imageText(nil))
}

func TestExtractCasing(t *testing.T) {
	res := newExtractor().Extract("LISINOPRIL 10   MG Orally ONCE DAILY")

	assert.Equal(t, []string{"Lisinopril"}, res.Medications)
	assert.Equal(t, []string{"10 MG"}, res.Doses)
	assert.Equal(t, []string{"orally"}, res.Routes)
	assert.Equal(t, []string{"once daily"}, res.Frequencies)
}
