package ted

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestField_Scalar(t *testing.T) {
	var f Field
	json.Unmarshal([]byte(`"123456-2024"`), &f)

	assert.Equal(t, "123456-2024", f.First())
	assert.Equal(t, "123456-2024", f.Text())
	assert.Equal(t, false, f.IsZero())
}

func TestField_NumberScalar(t *testing.T) {
	var f Field
	json.Unmarshal([]byte(`20240115`), &f)

	assert.Equal(t, "20240115", f.First())
}

func TestField_List(t *testing.T) {
	var f Field
	json.Unmarshal([]byte(`["first", "second"]`), &f)

	assert.Equal(t, "first", f.First())
}

func TestField_LangMapPrefersEnglish(t *testing.T) {
	var f Field
	json.Unmarshal([]byte(`{"deu": "Bauarbeiten", "eng": "Construction works"}`), &f)

	assert.Equal(t, "Construction works", f.Text())
}

func TestField_LangMapSortedFallback(t *testing.T) {
	var f Field
	json.Unmarshal([]byte(`{"fra": "Travaux", "deu": "Bauarbeiten"}`), &f)

	// No "eng" key: the first key in sorted order wins.
	assert.Equal(t, "Bauarbeiten", f.Text())
}

func TestField_Null(t *testing.T) {
	var f Field
	json.Unmarshal([]byte(`null`), &f)

	assert.Equal(t, true, f.IsZero())
	assert.Equal(t, "", f.First())
}
