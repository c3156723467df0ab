package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewGradeValid(t *testing.T) {
	t.Parallel()

	for g := GradeBlackout; g <= GradePerfect; g++ {
		assert.True(t, g.Valid(), "grade %d", g)
	}

	assert.False(t, ReviewGrade(-1).Valid())
	assert.False(t, ReviewGrade(6).Valid())
}

func TestReviewGradePassing(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		grade   ReviewGrade
		passing bool
	}{
		{GradeBlackout, false},
		{GradeIncorrect, false},
		{GradeIncorrectFamiliar, false},
		{GradeCorrectDifficult, true},
		{GradeCorrectHesitation, true},
		{GradePerfect, true},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.passing, tc.grade.Passing(), "grade %d", tc.grade)
	}
}

func TestGradeFromCorrect(t *testing.T) {
	t.Parallel()

	// Binary answers map onto the middle of the scale: correct to 4,
	// incorrect to 1.
	assert.Equal(t, GradeCorrectHesitation, GradeFromCorrect(true))
	assert.Equal(t, GradeIncorrect, GradeFromCorrect(false))

	assert.True(t, GradeFromCorrect(true).Passing())
	assert.False(t, GradeFromCorrect(false).Passing())
}
