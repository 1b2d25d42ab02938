package ml

import (
	"errors"

	"github.com/jbrukh/bayesian"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

// ErrInsufficientData is returned when the corpus is too small to hold out a
// meaningful test partition.
var ErrInsufficientData = errors.New("ml: need at least 5 labeled examples for evaluation")

const minEvalExamples = 5

// DefaultEvalSeed keeps holdout evaluations reproducible across runs on the
// same corpus.
const DefaultEvalSeed = 42

// lcgRand is a minimal linear congruential generator. The constants are the
// classic 9301/49297/233280 triple; evaluation only needs a cheap
// reproducible shuffle, not statistical quality.
type lcgRand struct {
	state int64
}

func (r *lcgRand) next() float64 {
	r.state = (r.state*9301 + 49297) % 233280
	return float64(r.state) / 233280
}

// shuffle runs a seeded Fisher-Yates over the examples in place.
func shuffle(examples []domain.TrainingExample, seed int64) {
	rng := lcgRand{state: seed}
	for i := len(examples) - 1; i > 0; i-- {
		j := int(rng.next() * float64(i+1))
		examples[i], examples[j] = examples[j], examples[i]
	}
}

// EvalHoldout trains a throwaway model on a shuffled partition of the corpus
// and measures it on the held-out rest. The service's live model is never
// touched. At least one example is always held out.
func EvalHoldout(examples []domain.TrainingExample, testRatio float64, seed int64) (domain.EvalReport, error) {
	if len(examples) < minEvalExamples {
		return domain.EvalReport{}, ErrInsufficientData
	}

	shuffled := make([]domain.TrainingExample, len(examples))
	copy(shuffled, examples)
	shuffle(shuffled, seed)

	testSize := int(float64(len(shuffled)) * testRatio)
	if testSize < 1 {
		testSize = 1
	}
	test := shuffled[:testSize]
	train := shuffled[testSize:]

	clf := bayesian.NewClassifier(classProductive, classUnproductive)
	for _, ex := range train {
		clf.Learn(Tokenize(ex.Text), bayesian.Class(ex.Label))
	}

	matrix := map[domain.Category]map[domain.Category]int{
		domain.CategoryProductive:   {domain.CategoryProductive: 0, domain.CategoryUnproductive: 0},
		domain.CategoryUnproductive: {domain.CategoryProductive: 0, domain.CategoryUnproductive: 0},
	}

	correct := 0
	for _, ex := range test {
		_, best, _ := clf.LogScores(Tokenize(ex.Text))
		predicted := domain.Category(clf.Classes[best])
		if predicted == ex.Label {
			correct++
		}
		if row, ok := matrix[ex.Label]; ok {
			row[predicted]++
		}
	}

	return domain.EvalReport{
		Accuracy:        round3(float64(correct) / float64(len(test))),
		NTrain:          len(train),
		NTest:           len(test),
		ConfusionMatrix: matrix,
	}, nil
}
