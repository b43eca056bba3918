package annotation

import "github.com/substancehq/substance/internal/store"

// ShiftForSplice computes the ops needed to keep every annotation anchored
// to path consistent after a string-splice at [pos, pos+deleteCount) that
// inserts a run of insertLen runes. It does not touch the store; callers
// apply the returned ops as part of the same transaction that applies the
// splice itself.
//
// An offset strictly before pos is untouched. An offset at or after
// pos+deleteCount shifts by (insertLen - deleteCount). An offset that falls
// strictly inside the deleted span clamps to pos.
func ShiftForSplice(idx *PropertyIndex, path store.Path, pos, deleteCount, insertLen int) []store.Op {
	delta := insertLen - deleteCount
	if delta == 0 && deleteCount == 0 {
		return nil
	}
	records := idx.Get(path, 0, maxInt, "")

	var ops []store.Op
	for _, r := range records {
		newStart := shiftOffset(r.Start, pos, deleteCount, delta)
		newEnd := shiftOffset(r.End, pos, deleteCount, delta)
		if newStart == r.Start && newEnd == r.End {
			continue
		}
		if newStart != r.Start {
			ops = append(ops, &store.SetOp{P: store.Path{NodeID: r.ID, Property: "startOffset"}, Value: newStart})
		}
		if newEnd != r.End {
			ops = append(ops, &store.SetOp{P: store.Path{NodeID: r.ID, Property: "endOffset"}, Value: newEnd})
		}
	}
	return ops
}

const maxInt = int(^uint(0) >> 1)

func shiftOffset(offset, pos, deleteCount, delta int) int {
	spliceEnd := pos + deleteCount
	switch {
	case offset < pos:
		return offset
	case offset >= spliceEnd:
		return offset + delta
	default:
		return pos
	}
}
