package matrixgame

import (
	"math"
	"reflect"
	"testing"
)

var (
	// Prisoners' dilemma: action 0 cooperates, action 1 defects.
	pd0 = [][]float64{
		{1, -1},
		{2, 0},
	}
	pd1 = [][]float64{
		{1, 2},
		{-1, 0},
	}

	// Matching pennies: player 0 wins on a match.
	mp0 = [][]float64{
		{1, -1},
		{-1, 1},
	}
	mp1 = [][]float64{
		{-1, 1},
		{1, -1},
	}
)

func TestBestDeviation(t *testing.T) {
	v, row := BestRowDeviation(pd0, 0, 0)
	if v != 2 || row != 1 {
		t.Errorf("expected row deviation (2, 1), got (%v, %v)", v, row)
	}

	v, col := BestColDeviation(pd1, 0, 0)
	if v != 2 || col != 1 {
		t.Errorf("expected column deviation (2, 1), got (%v, %v)", v, col)
	}

	single := [][]float64{{3}}
	v, row = BestRowDeviation(single, 0, 0)
	if !math.IsInf(v, -1) || row != -1 {
		t.Errorf("expected no row deviation, got (%v, %v)", v, row)
	}
	v, col = BestColDeviation(single, 0, 0)
	if !math.IsInf(v, -1) || col != -1 {
		t.Errorf("expected no column deviation, got (%v, %v)", v, col)
	}
}

func TestPureNash(t *testing.T) {
	testCases := []struct {
		name     string
		p0, p1   [][]float64
		expected []Profile
	}{
		{"prisoners dilemma", pd0, pd1, []Profile{{1, 1}}},
		{"matching pennies", mp0, mp1, nil},
		{
			"coordination",
			[][]float64{{2, 0}, {0, 1}},
			[][]float64{{2, 0}, {0, 1}},
			[]Profile{{0, 0}, {1, 1}},
		},
	}

	for _, tc := range testCases {
		result := PureNash(tc.p0, tc.p1, 1e-9)
		if !reflect.DeepEqual(result, tc.expected) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.expected, result)
		}
	}
}

func TestPureMinmax(t *testing.T) {
	if mm := PureMinmax(pd0, pd1); mm != [2]float64{0, 0} {
		t.Errorf("prisoners dilemma: expected minmax (0, 0), got %v", mm)
	}

	if mm := PureMinmax(mp0, mp1); mm != [2]float64{1, 1} {
		t.Errorf("matching pennies: expected minmax (1, 1), got %v", mm)
	}
}
