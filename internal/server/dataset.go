package server

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
)

// Item is the demo record served by /v1/items and /v1/export.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Dataset is an immutable in-memory collection standing in for whatever
// retrieval layer would feed contracts in a real deployment.
type Dataset struct {
	items []Item
}

func NewDataset(n int) *Dataset {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:    uuid.NewString(),
			Name:  fmt.Sprintf("item-%04d", i+1),
			Price: float64(i+1) * 1.25,
		}
	}
	return &Dataset{items: items}
}

func (d *Dataset) Total() int {
	return len(d.items)
}

// Page returns the items for a 1-based page. Out-of-range pages yield an
// empty slice, not an error; pagination bounds are the contract layer's
// documented looseness.
func (d *Dataset) Page(page, pageSize int) []Item {
	if page < 1 || pageSize < 1 {
		return []Item{}
	}
	start := (page - 1) * pageSize
	if start >= len(d.items) {
		return []Item{}
	}
	end := start + pageSize
	if end > len(d.items) {
		end = len(d.items)
	}
	return d.items[start:end]
}

// StreamCSV returns a reader producing the dataset as CSV. Rows are written
// through a pipe from a goroutine, so the full payload never sits in memory
// and the reader honors backpressure from the consumer. Closing the reader
// early unblocks the writer.
func (d *Dataset) StreamCSV() io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		cw := csv.NewWriter(pw)
		if err := cw.Write([]string{"id", "name", "price"}); err != nil {
			pw.CloseWithError(err)
			return
		}
		for _, item := range d.items {
			row := []string{item.ID, item.Name, strconv.FormatFloat(item.Price, 'f', 2, 64)}
			if err := cw.Write(row); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		cw.Flush()
		pw.CloseWithError(cw.Error())
	}()
	return pr
}
