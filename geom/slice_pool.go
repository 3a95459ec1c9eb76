package geom

import (
	"sync"
)

var pointSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]Point, 0)
	},
}

func allocPointSlice() []Point {
	return pointSlicePool.Get().([]Point)
}

func freePointSlice(s []Point) {
	if cap(s) > 0 {
		pointSlicePool.Put(s[:0])
	}
}
