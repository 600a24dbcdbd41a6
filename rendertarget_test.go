package veneer

import "testing"

func TestNextPowerOfTwo(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8},
		{255, 256}, {256, 256}, {257, 512}, {800, 1024}, {1920, 2048},
	}
	for _, c := range cases {
		if got := nextPowerOfTwo(c.in); got != c.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPoolKeyDistinct(t *testing.T) {
	if poolKey(256, 512) == poolKey(512, 256) {
		t.Error("transposed sizes collide")
	}
	if poolKey(1024, 1024) != poolKey(1024, 1024) {
		t.Error("key not deterministic")
	}
}

func TestPoolReleaseForeignImageIsNoop(t *testing.T) {
	var p texturePool
	p.Release(nil)
	if len(p.buckets) != 0 {
		t.Error("releasing nil grew the pool")
	}
}
