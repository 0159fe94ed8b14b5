package observation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultDecoding(t *testing.T) {
	t.Run("keeps measurement key order", func(t *testing.T) {
		body := []byte(`{"type":"Blood Pressure","observations":[
			{"timestamp":"2020-01-01T10:00:00","systolic":{"value":120,"unit":"mmHg"},"diastolic":{"value":80.5,"unit":"mmHg"}},
			{"diastolic":{"value":79,"unit":"mmHg"},"timestamp":"2020-02-01","systolic":{"value":119,"unit":"mmHg"}}
		]}`)

		var r Result
		require.NoError(t, json.Unmarshal(body, &r))

		assert.Equal(t, "Blood Pressure", r.Category)
		require.Len(t, r.Observations, 2)
		assert.Equal(t, Observation{
			Timestamp: "2020-01-01T10:00:00",
			Measurements: []Measurement{
				{Name: "systolic", Value: "120", Unit: "mmHg"},
				{Name: "diastolic", Value: "80.5", Unit: "mmHg"},
			},
		}, r.Observations[0])
		assert.Equal(t, []Measurement{
			{Name: "diastolic", Value: "79", Unit: "mmHg"},
			{Name: "systolic", Value: "119", Unit: "mmHg"},
		}, r.Observations[1].Measurements)
	})

	t.Run("category wins over type", func(t *testing.T) {
		var r Result
		require.NoError(t, json.Unmarshal([]byte(`{"type":"weight","category":"Body Weight","observations":[]}`), &r))
		assert.Equal(t, "Body Weight", r.Category)
		assert.Empty(t, r.Observations)
	})

	t.Run("skips values that are not measurements", func(t *testing.T) {
		var o Observation
		require.NoError(t, json.Unmarshal([]byte(`{"timestamp":"t","id":"obs-1","flags":[1,2],"weight":{"value":"70","unit":"kg"}}`), &o))
		assert.Equal(t, []Measurement{{Name: "weight", Value: "70", Unit: "kg"}}, o.Measurements)
	})

	t.Run("rejects a non-object observation", func(t *testing.T) {
		var r Result
		assert.Error(t, json.Unmarshal([]byte(`{"type":"weight","observations":["oops"]}`), &r))
	})
}

func TestRender(t *testing.T) {
	o := Observation{
		Timestamp: "2021-06-01T08:30:00Z",
		Measurements: []Measurement{
			{Name: "height", Value: "172", Unit: "cm"},
		},
	}
	assert.Equal(t, "2021-06-01T08:30:00Z\n  height: 172 cm\n", Render(o))
	assert.Equal(t, "2021-06-01\n", Render(Observation{Timestamp: "2021-06-01"}))
}
