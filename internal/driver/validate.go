// Package driver orchestrates validation of a whole analysis snapshot:
// loading, per-function fan-out and deterministic diagnostic merging.
package driver

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"rill/internal/body"
	"rill/internal/diag"
	"rill/internal/project"
	"rill/internal/sema"
	"rill/internal/snapshot"
)

// Options configures one validation run.
type Options struct {
	Config project.ValidatorConfig
	Cache  *VerdictCache  // nil disables caching
	Digest project.Digest // content digest of the snapshot file
}

// Result is the merged outcome of a validation run.
type Result struct {
	Bag       *diag.Bag
	Funcs     int
	CacheHits int
}

// LoadSnapshot reads and rebuilds a snapshot file, returning its content
// digest for cache keying.
func LoadSnapshot(path string) (*snapshot.Program, project.Digest, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, project.Digest{}, err
	}
	prog, err := snapshot.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, project.Digest{}, err
	}
	return prog, project.HashBytes(data), nil
}

// funcKey derives the cache key for one function: the snapshot digest
// combined with the function id and the cache schema.
func funcKey(snap project.Digest, id body.FuncID) project.Digest {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(id))
	binary.LittleEndian.PutUint16(buf[4:6], verdictCacheSchema)
	return project.Combine(snap, project.HashBytes(buf[:]))
}

// checkName maps a validation code to its configurable check.
func checkName(code diag.Code) string {
	switch code {
	case diag.ValMissingStructFields, diag.ValMissingPatternFields:
		return project.CheckRecordFields
	case diag.ValMismatchedArgCount:
		return project.CheckCallArity
	case diag.ValMissingMatchArms:
		return project.CheckMatchArms
	case diag.ValMissingOkWrap:
		return project.CheckTailResult
	}
	return ""
}

// ValidateProgram validates every function body in the snapshot. Functions
// are independent, so they run on bounded parallel workers; the merge walks
// function ids in order, so output never depends on completion order.
//
// Cached verdicts are stored unfiltered; disabled checks are dropped at
// merge time so toggling configuration never invalidates the cache.
func ValidateProgram(ctx context.Context, prog *snapshot.Program, opts Options) (*Result, error) {
	ids := prog.Module.FuncIDs()

	jobs := opts.Config.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiags := opts.Config.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = project.DefaultMaxDiagnostics
	}

	// Worker i owns slot i; no mutex needed.
	bags := make([]*diag.Bag, len(ids))
	hits := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(ids), 1)))

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			key := funcKey(opts.Digest, id)
			if opts.Cache != nil {
				var payload verdictPayload
				if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
					bags[i] = payload.toBag(maxDiags)
					hits[i] = true
					return nil
				}
			}

			bag := diag.NewBag(maxDiags)
			vctx := &sema.Context{
				Module:   prog.Module,
				Interner: prog.Types,
				Strings:  prog.Strings,
				Resolver: prog,
				Reporter: diag.BagReporter{Bag: bag},
			}
			sema.ValidateFunc(vctx, id, prog.Infer[id])
			bags[i] = bag

			if opts.Cache != nil {
				// Cache write failures only cost a recomputation next run.
				_ = opts.Cache.Put(key, payloadFromBag(bag))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := diag.NewBag(maxDiags)
	hitCount := 0
	for i := range bags {
		if hits[i] {
			hitCount++
		}
		for _, d := range bags[i].Items() {
			if name := checkName(d.Code); name != "" && !opts.Config.Enabled(name) {
				continue
			}
			out.Add(d)
		}
	}
	out.Sort()
	out.Dedup()
	return &Result{Bag: out, Funcs: len(ids), CacheHits: hitCount}, nil
}
