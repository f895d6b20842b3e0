// Package topology generates seat layouts and their adjacency.
package topology

import (
	"errors"
	"fmt"
	"strconv"

	"svw.info/seating/internal/domain"
)

const (
	minSeats       = 1
	minCircleSeats = 3
)

var (
	// ErrTooFewSeats is returned when a layout cannot hold the requested count.
	ErrTooFewSeats = errors.New("topology: too few seats")
	// ErrUnknownLayout is returned for a layout tag outside line/circle.
	ErrUnknownLayout = errors.New("topology: unknown layout")
)

// SeatID is the stable id of the seat at index i.
func SeatID(i int) string {
	return "seat-" + strconv.Itoa(i)
}

// BuildSeats returns count seats in index order.
//
// A circle with fewer than three seats is a caller error: the modulo
// neighbours degenerate into self-adjacency (count 1) or the same neighbour
// listed twice (count 2). Use CheckShape when loading level data.
func BuildSeats(count int, layout domain.Layout) []domain.Seat {
	if count <= 0 {
		return []domain.Seat{}
	}
	seats := make([]domain.Seat, 0, count)
	for i := 0; i < count; i++ {
		adj := make([]string, 0, 2)
		if layout == domain.Line {
			if i > 0 {
				adj = append(adj, SeatID(i-1))
			}
			if i < count-1 {
				adj = append(adj, SeatID(i+1))
			}
		} else {
			adj = append(adj, SeatID((i-1+count)%count), SeatID((i+1)%count))
		}
		seats = append(seats, domain.Seat{
			ID:       SeatID(i),
			Position: i,
			IsEdge:   layout == domain.Line && (i == 0 || i == count-1),
			Adjacent: adj,
		})
	}
	return seats
}

// CheckShape rejects seat counts and layouts BuildSeats cannot model correctly.
func CheckShape(count int, layout domain.Layout) error {
	switch layout {
	case domain.Line:
		if count < minSeats {
			return fmt.Errorf("%s: count=%d < min=%d: %w", layout, count, minSeats, ErrTooFewSeats)
		}
	case domain.Circle:
		if count < minCircleSeats {
			return fmt.Errorf("%s: count=%d < min=%d: %w", layout, count, minCircleSeats, ErrTooFewSeats)
		}
	default:
		return fmt.Errorf("%q: %w", layout, ErrUnknownLayout)
	}
	return nil
}
