package engine

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// RecordSchema is the Arrow layout of a YearGroup: one row per stop.
var RecordSchema = arrow.NewSchema([]arrow.Field{
	{Name: "year", Type: arrow.PrimitiveTypes.Int32},
	{Name: "description", Type: arrow.BinaryTypes.String},
	{Name: "arrested", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "frisked", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "gender", Type: arrow.BinaryTypes.String},
	{Name: "race", Type: arrow.BinaryTypes.String},
	{Name: "location", Type: arrow.BinaryTypes.String},
}, nil)

// ArrowRecord copies the group into a columnar record batch. The caller owns
// the result and must Release it.
func (g *YearGroup) ArrowRecord(mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, RecordSchema)
	defer b.Release()

	n := len(g.records)
	years := b.Field(0).(*array.Int32Builder)
	descs := b.Field(1).(*array.StringBuilder)
	arrests := b.Field(2).(*array.BooleanBuilder)
	frisks := b.Field(3).(*array.BooleanBuilder)
	genders := b.Field(4).(*array.StringBuilder)
	races := b.Field(5).(*array.StringBuilder)
	locs := b.Field(6).(*array.StringBuilder)

	years.Reserve(n)
	arrests.Reserve(n)
	frisks.Reserve(n)

	for _, r := range g.records {
		years.Append(int32(g.year))
		descs.Append(r.description)
		arrests.Append(r.arrested)
		frisks.Append(r.frisked)
		genders.Append(r.gender)
		races.Append(r.race)
		locs.Append(r.location)
	}
	return b.NewRecord()
}

// WriteArrow streams the group to w in the Arrow IPC stream format.
func WriteArrow(w io.Writer, g *YearGroup, mem memory.Allocator) error {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	rec := g.ArrowRecord(mem)
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(RecordSchema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		iw.Close()
		return fmt.Errorf("write arrow batch for %d: %w", g.year, err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("close arrow stream: %w", err)
	}
	return nil
}
