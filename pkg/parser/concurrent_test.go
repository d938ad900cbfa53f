package parser

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uiimport/pkg/printer"
)

// TestConcurrentParseModule parses and converts from many goroutines at once
// and checks every result round-trips.
func TestConcurrentParseModule(t *testing.T) {
	manager := NewParserManagerWithSize(4, testLogger())
	defer manager.Close()

	const goroutines = 64
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			dialect := []Dialect{DialectJavaScript, DialectTypeScript, DialectTSX}[id%3]
			src := fmt.Sprintf("import { Button%d } from 'antd';\nconst { Input } = require(\"antd\");\n", id)

			m, err := manager.ParseModule([]byte(src), dialect)
			if err != nil {
				errs <- err
				return
			}
			if got := printer.Print(m); got != src {
				errs <- fmt.Errorf("round trip mismatch for %d: %q", id, got)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	stats := manager.Stats()
	assert.LessOrEqual(t, stats.ParsersCreated, 3*4, "at most pool size parsers per dialect")
	assert.Equal(t, int64(goroutines), stats.ParsesCalled)
}

func TestConcurrentPoolCreation(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := manager.Parse([]byte("let a = 1"), DialectJavaScript)
			if err == nil {
				tree.Close()
			}
		}()
	}
	wg.Wait()

	manager.mutex.RLock()
	pools := len(manager.pools)
	manager.mutex.RUnlock()
	require.Equal(t, 1, pools, "concurrent first use creates a single pool")
}

func BenchmarkParseModule(b *testing.B) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	src := []byte("import { Button, Input, Select } from 'antd';\nexport function App() {\n  const { Table } = require('antd');\n  return Table;\n}\n")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := manager.ParseModule(src, DialectJavaScript); err != nil {
			b.Fatal(err)
		}
	}
}
