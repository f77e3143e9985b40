package storage

import (
	"fmt"
	"testing"

	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
)

func benchHabits(n, days int) []habit.Habit {
	start := calendar.Date(2024, 1, 1)
	habits := make([]habit.Habit, n)
	for i := range habits {
		h := habit.New(fmt.Sprintf("Habit %d", i), "", start)
		for d := 0; d < days; d++ {
			h.CompletionDates = append(h.CompletionDates, start.AddDays(d))
		}
		habits[i] = h
	}
	return habits
}

// BenchmarkSaveHabits measures a full rewrite of habits.json.
func BenchmarkSaveHabits(b *testing.B) {
	for _, size := range []int{10, 100} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			s := createTestStorage(b)
			habits := benchHabits(size, 365)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := s.SaveHabits(habits); err != nil {
					b.Fatalf("SaveHabits failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkLoadHabits measures decoding a year of history.
func BenchmarkLoadHabits(b *testing.B) {
	for _, size := range []int{10, 100} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			s := createTestStorage(b)
			if err := s.SaveHabits(benchHabits(size, 365)); err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.LoadHabits(); err != nil {
					b.Fatalf("LoadHabits failed: %v", err)
				}
			}
		})
	}
}
