package bkio

import (
	"fmt"
	"io"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/internal/layout"
	"github.com/hupe1980/bkio/internal/wire"
	"github.com/hupe1980/bkio/model"
)

// QpboHeaderOf returns the header WriteQpbo emits for q.
func QpboHeaderOf[T captype.Capacity](q model.Qpbo[T], compressed bool) QpboHeader {
	return QpboHeader{
		Compressed:     compressed,
		CapType:        captype.CodeOf[T](),
		NumNodes:       q.NumNodes,
		NumUnaryTerms:  uint64(len(q.UnaryTerms)),
		NumBinaryTerms: uint64(len(q.BinaryTerms)),
	}
}

// WriteQpbo writes q in .bq format.
func WriteQpbo[T captype.Capacity](w io.Writer, q model.Qpbo[T], compress bool) error {
	hdr, err := QpboHeaderOf(q, compress).AppendBinary(make([]byte, 0, QpboHeaderSize))
	if err != nil {
		return err
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if err := writeSection(w, layout.UnaryTerm[T](), q.UnaryTerms, compress); err != nil {
		return fmt.Errorf("unary terms: %w", err)
	}
	if err := writeSection(w, layout.BinaryTerm[T](), q.BinaryTerms, compress); err != nil {
		return fmt.Errorf("binary terms: %w", err)
	}
	return nil
}

// ReadQpbo reads a .bq problem whose energies have type T.
func ReadQpbo[T captype.Capacity](r io.Reader) (model.Qpbo[T], error) {
	return decodeQpbo[T](newSource(r))
}

// DecodeQpbo decodes a .bq problem held in memory. The result does not
// alias data.
func DecodeQpbo[T captype.Capacity](data []byte) (model.Qpbo[T], error) {
	return decodeQpbo[T](wire.NewSliceReader(data))
}

func decodeQpbo[T captype.Capacity](src wire.Source) (model.Qpbo[T], error) {
	h, err := decodeQpboHeader(src)
	if err != nil {
		return model.Qpbo[T]{}, err
	}
	if err := checkType("energy", captype.CodeOf[T](), h.CapType); err != nil {
		return model.Qpbo[T]{}, err
	}

	unary, err := readSection(src, layout.UnaryTerm[T](), h.NumUnaryTerms, h.Compressed)
	if err != nil {
		return model.Qpbo[T]{}, fmt.Errorf("unary terms: %w", err)
	}
	binary, err := readSection(src, layout.BinaryTerm[T](), h.NumBinaryTerms, h.Compressed)
	if err != nil {
		return model.Qpbo[T]{}, fmt.Errorf("binary terms: %w", err)
	}
	if err := checkEnd(src); err != nil {
		return model.Qpbo[T]{}, err
	}
	return model.Qpbo[T]{
		NumNodes:    h.NumNodes,
		UnaryTerms:  unary,
		BinaryTerms: binary,
	}, nil
}
