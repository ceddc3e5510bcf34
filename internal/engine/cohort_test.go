package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohortForAge(t *testing.T) {
	tests := []struct {
		age    int
		want   Cohort
		wantOK bool
	}{
		{age: 0, wantOK: false},
		{age: 14, wantOK: false},
		{age: 15, want: Cohort15To19, wantOK: true},
		{age: 19, want: Cohort15To19, wantOK: true},
		{age: 20, want: Cohort20To24, wantOK: true},
		{age: 42, want: Cohort40To44, wantOK: true},
		{age: 64, want: Cohort60To64, wantOK: true},
		{age: 65, want: Cohort65Plus, wantOK: true},
		{age: 99, want: Cohort65Plus, wantOK: true},
	}
	for _, tt := range tests {
		got, ok := CohortForAge(tt.age)
		assert.Equal(t, tt.wantOK, ok, "age %d", tt.age)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "age %d", tt.age)
		}
	}
}

func TestCohort_Bounds(t *testing.T) {
	all := AllCohorts()
	require.Len(t, all, 11)
	assert.Equal(t, "15-19", all[0].String())
	assert.Equal(t, "65+", all[len(all)-1].String())

	for _, c := range all[:len(all)-1] {
		upper, ok := c.UpperAge()
		require.True(t, ok)
		assert.Equal(t, c.LowerAge()+4, upper)
		assert.False(t, c.IsOpenEnded())
	}
	_, ok := Cohort65Plus.UpperAge()
	assert.False(t, ok)
	assert.Equal(t, 65, Cohort65Plus.LowerAge())

	assert.False(t, Cohort(42).Valid())
	assert.Equal(t, "Cohort(42)", Cohort(42).String())
}

func TestParseCohort(t *testing.T) {
	c, err := ParseCohort("30-34")
	require.NoError(t, err)
	assert.Equal(t, Cohort30To34, c)

	for _, label := range []string{"10-14", "65-69", "", "65 +"} {
		_, err := ParseCohort(label)
		assert.ErrorIs(t, err, ErrUnknownCohort, label)
	}
}

func TestCohortValues_JSONLabels(t *testing.T) {
	rates := CohortRates{Cohort25To29: 0.35, Cohort65Plus: 0.55}
	encoded, err := json.Marshal(rates)
	require.NoError(t, err)
	assert.JSONEq(t, `{"25-29":0.35,"65+":0.55}`, string(encoded))

	var back CohortRates
	require.NoError(t, json.Unmarshal(encoded, &back))
	assert.Equal(t, rates, back)

	err = json.Unmarshal([]byte(`{"10-14":0.1}`), &back)
	assert.ErrorIs(t, err, ErrUnknownCohort)
}

func TestCohortValues_MissingReadsZero(t *testing.T) {
	v := CohortValues{Cohort20To24: 100, Cohort25To29: 50}
	assert.Zero(t, v.Get(Cohort45To49))
	assert.InDelta(t, 150.0, v.Sum(), 0)

	var nilValues CohortValues
	assert.Zero(t, nilValues.Get(Cohort20To24))
	assert.Nil(t, nilValues.Clone())
}

func TestCohortRateSeries(t *testing.T) {
	s := CohortRateSeries{2030: {Cohort30To34: 0.5}}
	assert.InDelta(t, 0.5, s.RatesFor(2030).Get(Cohort30To34), 0)
	assert.Nil(t, s.RatesFor(2031))
}
