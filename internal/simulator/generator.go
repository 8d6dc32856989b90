package simulator

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/muster/pkg/logger"
)

// randomFloatDivisor sets the resolution of generated floats.
const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateStudents creates synthetic students with unique IDs and random
// descriptors of the configured dimension. Descriptors are spread across
// the unit cube, so distinct students land far enough apart for matching.
func generateStudents(ctx context.Context, config *Config, stats *Stats) []Student {
	logger.Get().Info(ctx, "generating students",
		logger.Int("students", config.Students),
		logger.Int("descriptorDim", config.DescriptorDim),
	)

	students := make([]Student, config.Students)
	for i := range students {
		descriptor := make([]float64, config.DescriptorDim)
		for d := range descriptor {
			descriptor[d] = getRandomFloat()
		}
		students[i] = Student{
			PersonID:   uuid.New().String(),
			PersonName: "Student " + strconv.Itoa(i+1),
			Descriptor: descriptor,
		}
	}

	stats.StudentsGenerated = len(students)
	return students
}
