package analyze

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithmsInTestdata(t *testing.T) {
	filepath.WalkDir("../testdata/algorithms", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".star") {
			return nil
		}
		t.Run(filepath.Base(path), testExpectation(path))
		return nil
	})
}

// testExpectation checks the "# expect: <label>" header of a testdata file.
func testExpectation(path string) func(t *testing.T) {
	return func(t *testing.T) {
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		first, _, _ := strings.Cut(string(b), "\n")
		want, ok := strings.CutPrefix(first, "# expect: ")
		require.True(t, ok, "missing expectation header")

		r := Estimate(string(b))
		require.Equal(t, Estimated, r.Kind, "%v", r.Err)
		assert.Equal(t, strings.TrimSpace(want), r.Label)
		for _, l := range r.Loops {
			t.Logf("loop depth=%d var=%s range=%s bound=%s", l.Depth, l.Var, l.Range, l.Bound)
		}
	}
}

func TestEstimates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no loops",
			src:  "def f(arr):\n    return sorted(arr)\n",
			want: Linear,
		},
		{
			name: "single loop",
			src:  "def f(arr):\n    for i in range(len(arr)):\n        pass\n",
			want: Linear,
		},
		{
			name: "sequential loops",
			src:  "def f(arr):\n    for i in range(len(arr)):\n        pass\n    for j in range(len(arr)):\n        pass\n",
			want: Linear,
		},
		{
			name: "nested loops",
			src:  "def f(arr):\n    n = len(arr)\n    for i in range(n):\n        for j in range(n):\n            pass\n",
			want: Quadratic,
		},
		{
			name: "nested under if",
			src:  "def f(arr):\n    if arr:\n        for i in range(3):\n            for j in range(3):\n                pass\n",
			want: Quadratic,
		},
		{
			name: "triple",
			src:  "def f(a):\n    for i in range(len(a)):\n        for j in range(i):\n            for k in range(j):\n                pass\n",
			want: Cubic,
		},
		{
			name: "no function",
			src:  "x = 1\n",
			want: Linear,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Estimate(tt.src)
			require.Equal(t, Estimated, r.Kind, "%v", r.Err)
			assert.Equal(t, tt.want, r.Label)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestLoopBounds(t *testing.T) {
	src := `
def f(items, k=3):
    size = len(items) - 1
    for i in range(size):
        pass
    for j in range(k):
        pass
    for x in range(0, len(items) // 2):
        pass
    for y in range(n):
        pass
`
	r := Estimate(src)
	require.Equal(t, Estimated, r.Kind)
	assert.Equal(t, "f", r.Function)
	assert.Equal(t, "items", r.Input)
	require.Len(t, r.Loops, 4)
	assert.Equal(t, InputBound, r.Loops[0].Bound)
	assert.Equal(t, "range(size)", r.Loops[0].Range)
	assert.Equal(t, OtherBound, r.Loops[1].Bound)
	assert.Equal(t, InputBound, r.Loops[2].Bound)
	assert.Equal(t, "range(0, len(items)//2)", r.Loops[2].Range)
	assert.Equal(t, InputBound, r.Loops[3].Bound)
}

func TestFirstFunctionNamesInput(t *testing.T) {
	src := "def helper(a, b):\n    return a\n\ndef sort(arr):\n    for i in range(len(arr)):\n        pass\n"
	r := Estimate(src)
	assert.Equal(t, "helper", r.Function)
	assert.Equal(t, "a", r.Input)
	// len(arr) is not derived from the first function's input
	require.Len(t, r.Loops, 1)
	assert.Equal(t, OtherBound, r.Loops[0].Bound)
}

func TestInvalidSource(t *testing.T) {
	for _, src := range []string{
		"def f(:\n",
		"for for for",
		"def f(arr):\nreturn arr\n",
	} {
		r := Estimate(src)
		assert.Equal(t, Invalid, r.Kind, src)
		assert.Equal(t, "Invalid code", r.String())
		assert.Error(t, r.Err)
	}
}

func TestTooDeepIsAnalysisError(t *testing.T) {
	var b strings.Builder
	w := bufio.NewWriter(&b)
	w.WriteString("def f(arr):\n")
	indent := "    "
	for i := 0; i <= maxNesting; i++ {
		w.WriteString(strings.Repeat(indent, i+1))
		w.WriteString("for i in range(len(arr)):\n")
	}
	w.WriteString(strings.Repeat(indent, maxNesting+2))
	w.WriteString("pass\n")
	require.NoError(t, w.Flush())

	r := Estimate(b.String())
	require.Equal(t, AnalysisError, r.Kind)
	assert.ErrorIs(t, r.Err, ErrTooDeep)
	assert.True(t, strings.HasPrefix(r.String(), "Analysis error: "))
	assert.Equal(t, "f", r.Function)
	assert.Equal(t, "arr", r.Input)
}

func TestCache(t *testing.T) {
	c := NewCache(2)
	a := "def a(x):\n    for i in range(len(x)):\n        pass\n"
	b := "def b(x):\n    pass\n"
	d := "def d(x):\n    for i in range(len(x)):\n        for j in range(i):\n            pass\n"

	assert.Equal(t, Linear, c.Estimate(a).Label)
	assert.Equal(t, Linear, c.Estimate(a).Label)
	assert.Equal(t, Linear, c.Estimate(b).Label)
	assert.Equal(t, Quadratic, c.Estimate(d).Label)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 3, stats.Misses)

	// a was evicted
	c.Estimate(a)
	assert.Equal(t, 4, c.Stats().Misses)

	r := c.Estimate(d)
	r.Loops[0].Depth = 99
	assert.Equal(t, 1, c.Estimate(d).Loops[0].Depth)
}
