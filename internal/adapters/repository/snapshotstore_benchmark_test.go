package repository

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("F%04d", i+1)
	}
	return ids
}

func BenchmarkSnapshotStore_Current(b *testing.B) {
	store := NewSnapshotStore()
	if _, err := store.Reload(context.Background(), corpusLoader(benchmarkIDs(100)...)); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := store.Current(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkSnapshotStore_Reload(b *testing.B) {
	for _, size := range []int{100, 1000} {
		load := corpusLoader(benchmarkIDs(size)...)
		b.Run(fmt.Sprintf("freelancers=%d", size), func(b *testing.B) {
			store := NewSnapshotStore()
			ctx := context.Background()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := store.Reload(ctx, load); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
