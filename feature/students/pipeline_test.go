package students_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"kivo-exporter/core/cache"
	"kivo-exporter/core/kivo"
	"kivo-exporter/feature/students"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAPI serves a small fixed student/spine universe.
//
//	student 1: two spines, one accepted, one wrong type
//	student 2: school 30 (official account)
//	student 3: 404
//	student 4: references a spine that 404s plus one valid spine
type fakeAPI struct{}

func (fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/students/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/students/"))
		switch id {
		case 1:
			fmt.Fprint(w, `{"code":200,"data":{
				"family_name":"砂狼","given_name":"シロコ",
				"family_name_jp":"砂狼","given_name_jp":"シロコ",
				"family_name_en":"Sunaookami","given_name_en":"Shiroko",
				"school":5,"spine":[10,11]}}`)
		case 2:
			fmt.Fprint(w, `{"code":200,"data":{"given_name":"GM","school":30}}`)
		case 4:
			fmt.Fprint(w, `{"code":200,"data":{
				"family_name":"小鳥遊","given_name":"ホシノ",
				"school":1,"spine":[40,41]}}`)
		default:
			http.NotFound(w, r)
		}
	case strings.HasPrefix(r.URL.Path, "/spines/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/spines/"))
		switch id {
		case 10:
			fmt.Fprint(w, `{"code":200,"data":{"id":10,"name":"J_CH0010_spr","type":"spr","remark":"初始立绘"}}`)
		case 11:
			fmt.Fprint(w, `{"code":200,"data":{"id":11,"name":"J_CH0011_spr","type":"npc"}}`)
		case 41:
			fmt.Fprint(w, `{"code":200,"data":{"id":41,"name":"J_Hoshino_spr","type":"spr"}}`)
		default:
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func newPipeline(t *testing.T, baseURL, cacheDir string) (*students.Pipeline, *kivo.Fetcher) {
	t.Helper()
	store := cache.NewStore(cache.Config{Dir: cacheDir}, zap.NewNop())
	fetcher := kivo.NewFetcher(kivo.Config{
		StudentURL:     baseURL + "/students/",
		SpineURL:       baseURL + "/spines/",
		TimeoutSeconds: 5,
	}, store, zap.NewNop())
	parser := students.NewParser(nil)
	return students.NewPipeline(fetcher, parser, zap.NewNop(), 3, 0), fetcher
}

func TestPipeline_Run(t *testing.T) {
	srv := httptest.NewServer(fakeAPI{})
	defer srv.Close()

	pipeline, fetcher := newPipeline(t, srv.URL, t.TempDir())
	forms, skipped := pipeline.Run(context.Background(), []int{1, 2, 3, 4})

	students.SortForms(forms)
	students.SortSkipped(skipped)

	// Student 1 yields CH0010; student 4 yields hoshino (spine 40 dropped).
	require.Len(t, forms, 2)
	assert.Equal(t, "CH0010", forms[0].FileID)
	assert.Equal(t, 1, forms[0].CharID)
	assert.Equal(t, "砂狼 シロコ", forms[0].Name)
	assert.Equal(t, "hoshino", forms[1].FileID)
	assert.Equal(t, 4, forms[1].CharID)

	// Skips: spine 11 (wrong type), student 2 (official), student 3 (404).
	require.Len(t, skipped, 3)

	require.NotNil(t, skipped[0].SpineID)
	assert.Equal(t, 1, skipped[0].StudentID)
	assert.Equal(t, 11, *skipped[0].SpineID)
	assert.Equal(t, students.ReasonType, skipped[0].Reason.Kind)

	assert.Equal(t, 2, skipped[1].StudentID)
	assert.Nil(t, skipped[1].SpineID)
	assert.Equal(t, students.ReasonOfficialAccount, skipped[1].Reason.Kind)
	assert.Equal(t, "GM", skipped[1].Name)
	assert.Equal(t, "30", skipped[1].School)

	assert.Equal(t, 3, skipped[2].StudentID)
	assert.Nil(t, skipped[2].SpineID)
	assert.Equal(t, students.ReasonFetchFailed, skipped[2].Reason.Kind)
	assert.Equal(t, "not found (404)", skipped[2].Reason.String())

	// The spine-40 fetch failure left no trace in the audit trail.
	for _, rec := range skipped {
		if rec.SpineID != nil {
			assert.NotEqual(t, 40, *rec.SpineID)
		}
	}

	stats := fetcher.Stats()
	assert.Equal(t, int64(4), stats.StudentCalls)
	assert.Equal(t, int64(4), stats.SpineCalls)
}

func TestPipeline_WarmCacheReplayIssuesNoNetworkCalls(t *testing.T) {
	srv := httptest.NewServer(fakeAPI{})
	cacheDir := t.TempDir()

	pipeline, _ := newPipeline(t, srv.URL, cacheDir)
	// Only ids whose whole fetch graph is cacheable: 3 (404) and 4 (one
	// spine 404s) would still reach the network on replay.
	ids := []int{1, 2}
	firstForms, firstSkipped := pipeline.Run(context.Background(), ids)
	srv.Close()

	// Same cache, dead server: everything must come from disk.
	pipeline, fetcher := newPipeline(t, srv.URL, cacheDir)
	secondForms, secondSkipped := pipeline.Run(context.Background(), ids)

	stats := fetcher.Stats()
	assert.Zero(t, stats.StudentCalls)
	assert.Zero(t, stats.SpineCalls)

	students.SortForms(firstForms)
	students.SortForms(secondForms)
	students.SortSkipped(firstSkipped)
	students.SortSkipped(secondSkipped)
	assert.Equal(t, firstForms, secondForms)
	assert.Equal(t, firstSkipped, secondSkipped)
}

func TestPipeline_FailedFetchesAreStillPaced(t *testing.T) {
	// Every id 404s; each attempt is still a real network call and must be
	// throttled like a successful one.
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	store := cache.NewStore(cache.Config{Dir: t.TempDir()}, zap.NewNop())
	fetcher := kivo.NewFetcher(kivo.Config{
		StudentURL:     srv.URL + "/students/",
		SpineURL:       srv.URL + "/spines/",
		TimeoutSeconds: 5,
	}, store, zap.NewNop())
	pipeline := students.NewPipeline(fetcher, students.NewParser(nil), zap.NewNop(), 1, 50*time.Millisecond)

	start := time.Now()
	forms, skipped := pipeline.Run(context.Background(), []int{1, 2, 3})
	elapsed := time.Since(start)

	assert.Empty(t, forms)
	require.Len(t, skipped, 3)
	for _, rec := range skipped {
		assert.Equal(t, students.ReasonFetchFailed, rec.Reason.Kind)
	}
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond,
		"pacing delay must apply to failed fetches")
}

func TestPipeline_CacheHitsAreNotPaced(t *testing.T) {
	srv := httptest.NewServer(fakeAPI{})
	cacheDir := t.TempDir()

	warm, _ := newPipeline(t, srv.URL, cacheDir)
	warm.Run(context.Background(), []int{1, 2})
	srv.Close()

	store := cache.NewStore(cache.Config{Dir: cacheDir}, zap.NewNop())
	fetcher := kivo.NewFetcher(kivo.Config{
		StudentURL:     srv.URL + "/students/",
		SpineURL:       srv.URL + "/spines/",
		TimeoutSeconds: 5,
	}, store, zap.NewNop())
	pipeline := students.NewPipeline(fetcher, students.NewParser(nil), zap.NewNop(), 1, 500*time.Millisecond)

	start := time.Now()
	pipeline.Run(context.Background(), []int{1, 2})
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 400*time.Millisecond,
		"cache hits must replay without pacing")
}

func TestPipeline_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(fakeAPI{})
	defer srv.Close()

	pipeline, _ := newPipeline(t, srv.URL, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	forms, skipped := pipeline.Run(ctx, []int{1, 2})
	// Cancelled pipelines produce no partial junk beyond per-id records.
	assert.Empty(t, forms)
	assert.Empty(t, skipped)
}
