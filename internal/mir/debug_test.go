package mir_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPrettyPrint_RendersAllBlocksAndStatements is a smoke test: the
// printer must at least mention every basic block and the function name,
// without panicking on any of the closed-sum cases it produced.
func TestPrettyPrint_RendersAllBlocksAndStatements(t *testing.T) {
	src := `
fn exit(code: i32);
fn side(x: bool) -> bool;

struct Pair {
    a: i32,
    b: i32,
}

fn combine(p: Pair, flag: bool) -> i32 {
    let mut total = p.a;
    if flag && side(true) {
        total += p.b;
    } else {
        total -= 1i32;
    }
    total
}

fn main() {
    let _ = combine(Pair { a: 1i32, b: 2i32 }, true);
    exit(0i32);
}
`
	mod := lowerSource(t, src)
	out := mod.PrettyPrint()
	require.Contains(t, out, "fn combine(")
	require.Contains(t, out, "fn main(")
	require.Contains(t, out, "extern fn exit")
	require.NotContains(t, out, "<?")
}
