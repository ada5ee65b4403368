package core_test

import (
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

func Test_NewEmpNr(t *testing.T) {
	valid, err := core.NewEmpNr(" ab12 ")
	require.NoError(t, err)
	assert.Equal(t, "AB12", valid.String())

	for _, raw := range []string{"", "A-1", "ABCDEFGHIJK", "ä1"} {
		_, err := core.NewEmpNr(raw)
		assert.ErrorIs(t, err, core.ErrInvalidValue, raw)
	}
}

func Test_NewEmpName(t *testing.T) {
	name, err := core.NewEmpName("  Smith J.  ")
	require.NoError(t, err)
	assert.Equal(t, "Smith J.", name.String())

	same, err := core.NewEmpName("Smith J.")
	require.NoError(t, err)
	assert.Equal(t, name, same)

	for _, raw := range []string{"", "   ", "Smith\nJ.", strings.Repeat("a", 101), "Smith \xff", "\xc3"} {
		_, err := core.NewEmpName(raw)
		assert.ErrorIs(t, err, core.ErrInvalidValue)
	}
}

func Test_TextValues_RejectInvalidUTF8(t *testing.T) {
	_, nameErr := core.NewEmpName("M\xfcller")
	_, titleErr := core.NewTitle("Comput\xe9r Science")

	assert.ErrorIs(t, nameErr, core.ErrInvalidValue)
	assert.ErrorIs(t, titleErr, core.ErrInvalidValue)

	name, err := core.NewEmpName("Müller")
	require.NoError(t, err)
	assert.Equal(t, "Müller", name.String())
}

func Test_NewRank(t *testing.T) {
	professor, err := core.NewRank("p")
	require.NoError(t, err)
	assert.Equal(t, core.RankProfessor, professor)
	assert.True(t, professor.IsProfessor())

	lecturer, err := core.NewRank("SL")
	require.NoError(t, err)
	assert.False(t, lecturer.IsProfessor())

	_, err = core.NewRank("X")
	var validationErr *core.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "rank", validationErr.Field)
	assert.Equal(t, "X", validationErr.Value)
}

func Test_NewRating_AcceptsOneToSeven(t *testing.T) {
	for raw := 1; raw <= 7; raw++ {
		rating, err := core.NewRating(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, rating.Int())
	}

	for _, raw := range []int{0, 8, -1} {
		_, err := core.NewRating(raw)
		assert.ErrorIs(t, err, core.ErrInvalidValue)
	}
}

func Test_NewMoneyAmount(t *testing.T) {
	cases := []struct {
		raw        string
		minorUnits int64
		formatted  string
	}{
		{raw: "0", minorUnits: 0, formatted: "0.00"},
		{raw: "12.5", minorUnits: 1250, formatted: "12.50"},
		{raw: "1250000.05", minorUnits: 125000005, formatted: "1250000.05"},
		{raw: "999999999999.99", minorUnits: 99_999_999_999_999, formatted: "999999999999.99"},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			amount, err := core.NewMoneyAmount(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.minorUnits, amount.MinorUnits())
			assert.Equal(t, tc.formatted, amount.String())
		})
	}

	for _, raw := range []string{"", "-1", "1.234", "1,00", "1000000000000", "abc"} {
		_, err := core.NewMoneyAmount(raw)
		assert.ErrorIs(t, err, core.ErrInvalidValue, raw)
	}

	_, err := core.MoneyAmountFromMinorUnits(-1)
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func Test_NewPhoneNumber_StripsFormatting(t *testing.T) {
	formatted, err := core.NewPhoneNumber("+61 (7) 3365-1111")
	require.NoError(t, err)

	plain, err := core.NewPhoneNumber("+61733651111")
	require.NoError(t, err)

	assert.Equal(t, plain, formatted)
	assert.Equal(t, "+61733651111", formatted.String())

	for _, raw := range []string{"123456", "1234567890123456", "12a4567", "12+34567"} {
		_, err := core.NewPhoneNumber(raw)
		assert.ErrorIs(t, err, core.ErrInvalidValue, raw)
	}
}

func Test_LocationValues(t *testing.T) {
	roomNr, err := core.NewRoomNr("g-101")
	require.NoError(t, err)
	assert.Equal(t, "G-101", roomNr.String())

	_, err = core.NewRoomNr("101 A")
	assert.ErrorIs(t, err, core.ErrInvalidValue)

	_, err = core.NewBldgNr("B-1")
	assert.ErrorIs(t, err, core.ErrInvalidValue)

	extNr, err := core.NewExtNr("4321")
	require.NoError(t, err)
	assert.Equal(t, "4321", extNr.String())

	for _, raw := range []string{"12", "1234567", "12a"} {
		_, err := core.NewExtNr(raw)
		assert.ErrorIs(t, err, core.ErrInvalidValue, raw)
	}

	level, err := core.NewAccessLevel("nat")
	require.NoError(t, err)
	assert.Equal(t, core.AccessLevelNational, level)

	_, err = core.NewAccessLevel("WORLD")
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func Test_ValueObjects_SerializeToTheirPrimitive(t *testing.T) {
	// arrange
	type payload struct {
		EmpNr  core.EmpNr
		Rank   core.Rank
		Budget core.MoneyAmount
		Rating core.Rating
		Phone  core.PhoneNumber
	}

	in := payload{
		EmpNr:  mustValue(core.NewEmpNr("E1")),
		Rank:   core.RankLecturer,
		Budget: mustValue(core.NewMoneyAmount("0")),
		Rating: mustValue(core.NewRating(7)),
		Phone:  mustValue(core.NewPhoneNumber("0712345678")),
	}

	// act
	data, err := jsoniter.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, jsoniter.Unmarshal(data, &out))

	// assert
	assert.JSONEq(t, `{"EmpNr":"E1","Rank":"L","Budget":"0.00","Rating":7,"Phone":"0712345678"}`, string(data))
	assert.Equal(t, in, out)
}

func Test_ValueObjects_DecodingInvalidValuesFails(t *testing.T) {
	var rank core.Rank
	assert.ErrorIs(t, rank.UnmarshalJSON([]byte(`"Dean"`)), core.ErrInvalidValue)

	var rating core.Rating
	assert.ErrorIs(t, rating.UnmarshalJSON([]byte(`0`)), core.ErrInvalidValue)

	var amount core.MoneyAmount
	assert.ErrorIs(t, amount.UnmarshalJSON([]byte(`"-5.00"`)), core.ErrInvalidValue)

	var payload struct{ Rank core.Rank }
	assert.Error(t, jsoniter.Unmarshal([]byte(`{"Rank":"Dean"}`), &payload))
}

func mustValue[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}

	return value
}
