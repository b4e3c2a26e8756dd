package utils

import "time"

// StartOfDay обнуляет часы, минуты, секунды и наносекунды.
// Все даты жизненного цикла оборудования хранятся с точностью до дня.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsToday сравнивает дату (без времени) с сегодняшним днём.
func IsToday(t time.Time) bool {
	return SameDay(t, time.Now())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
