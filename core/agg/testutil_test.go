package agg

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

//go:embed testdata/commit_log.txt
var commitLogFixture string

// fixtureLog restores the control-character separators that the fixture
// spells out as <RS>, <US> and <GS> to keep it readable.
func fixtureLog() []byte {
	r := strings.NewReplacer(
		"<RS>", contract.LogRecordStart,
		"<US>", contract.LogFieldSep,
		"<GS>", contract.LogRecordEnd,
	)
	return []byte(r.Replace(commitLogFixture))
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func commit(hash, name, email, ts string, files ...schema.FileChangeEntry) schema.CommitRecord {
	return schema.CommitRecord{
		Hash:        hash,
		AuthorName:  name,
		AuthorEmail: email,
		Timestamp:   at(ts),
		Subject:     "change " + hash,
		Files:       files,
	}
}

func change(path string, ins, del int) schema.FileChangeEntry {
	return schema.FileChangeEntry{Path: path, Changes: ins + del, Insertions: ins, Deletions: del}
}

// syntheticHistory builds n commits spread over authors, hours and files so
// that shards in the parallel path see overlapping keys.
func syntheticHistory(n int) []schema.CommitRecord {
	base := at("2023-06-01T00:00:00Z")
	out := make([]schema.CommitRecord, n)
	for i := range n {
		a := i % 7
		out[i] = schema.CommitRecord{
			Hash:        fmt.Sprintf("%040d", i),
			AuthorName:  fmt.Sprintf("Dev %d", a),
			AuthorEmail: fmt.Sprintf("dev%d@example.com", a),
			Timestamp:   base.Add(time.Duration(i) * 37 * time.Minute),
			Files: []schema.FileChangeEntry{
				change(fmt.Sprintf("pkg/f%d.go", i%13), i%9, i%4),
				change(fmt.Sprintf("cmd/c%d.go", i%5), 1, 0),
			},
		}
	}
	return out
}
