package document

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/access"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/analysis"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/audit"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/billing"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/database"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/llm"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/usage"
)

// cannedCompletion is a minimal valid model response: all four payload
// blocks present, one section, one suggestion.
const cannedCompletion = `{
	"overallAiScore": 35.5,
	"humanWrittenPercent": 64.5,
	"aiGeneratedPercent": 35.5,
	"textMetrics": {
		"wordCount": 120, "sentenceCount": 8, "averageSentenceLength": 15.0,
		"readabilityScore": 61.2, "lexicalDiversity": 0.72, "uniqueWordCount": 86,
		"academicLanguageScore": 0.41, "passiveVoicePercentage": 12.0,
		"firstPersonPercentage": 3.0, "thirdPersonPercentage": 22.0,
		"punctuationDensity": 0.11, "grammarErrorCount": 1,
		"spellingErrorCount": 0, "predictabilityScore": 0.33, "nGramUniqueness": 0.8
	},
	"sections": [
		{"startOffset": 0, "endOffset": 40, "content": "opening",
		 "isAiGenerated": false, "aiConfidence": 0.2, "suggestions": ""}
	],
	"wordSuggestions": [
		{"originalWord": "utilize", "suggestedWord": "use", "position": 3,
		 "startOffset": 12, "endOffset": 19, "context": "we utilize the",
		 "aiConfidence": 0.9}
	],
	"feedbackMetrics": {
		"sentenceLengthChange": 0, "paragraphStructureScore": 70,
		"grammarErrorCount": 1, "originalityShift": 0
	}
}`

type fixedGateway struct{ content string }

func (g *fixedGateway) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	return &llm.Completion{Content: g.content, Model: req.Model}, nil
}

func (g *fixedGateway) Embed(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return &llm.EmbeddingResponse{Embeddings: [][]float32{{0, 0, 0}}}, nil
}

func testService(t *testing.T) (*Service, *pgxpool.Pool, *models.User) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.RunMigrations(ctx, pool, "../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := &models.User{
		ID:               uuid.New(),
		Email:            fmt.Sprintf("ledger-%s@test.local", uuid.New()),
		Name:             "Ledger Tester",
		Role:             models.RoleStudent,
		SubscriptionTier: models.TierPremium,
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role, subscription_tier) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Name, user.Role, user.SubscriptionTier,
	)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	requester := analysis.NewRequester(&fixedGateway{content: cannedCompletion}, "test-model", 60000)
	svc := NewService(pool, access.NewGuard(pool), requester,
		billing.NewService(pool), usage.NewRecorder(pool, nil),
		audit.NewService(pool), nil, nil, 30*time.Second)
	return svc, pool, user
}

func TestCreateLineageAndVersions(t *testing.T) {
	svc, pool, user := testService(t)
	ctx := context.Background()

	v1, err := svc.CreateFromText(ctx, user, CreateInput{
		Title:   "Essay",
		Content: "A first draft of the essay body.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v1.VersionNumber != 1 {
		t.Errorf("version = %d, want 1", v1.VersionNumber)
	}
	if v1.RootDocumentID != v1.ID {
		t.Errorf("root = %s, want self %s", v1.RootDocumentID, v1.ID)
	}
	if !v1.IsLatest {
		t.Error("first version should be latest")
	}

	v2, err := svc.CreateVersion(ctx, user, v1.ID, CreateInput{
		Content: "A reworked second draft.",
	})
	if err != nil {
		t.Fatalf("create version: %v", err)
	}
	if v2.VersionNumber != 2 {
		t.Errorf("version = %d, want 2", v2.VersionNumber)
	}
	if v2.RootDocumentID != v1.ID {
		t.Errorf("root = %s, want %s", v2.RootDocumentID, v1.ID)
	}

	// Exactly one latest version per lineage.
	var latestCount int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE root_document_id = $1 AND is_latest`,
		v1.ID,
	).Scan(&latestCount)
	if err != nil {
		t.Fatalf("count latest: %v", err)
	}
	if latestCount != 1 {
		t.Errorf("latest count = %d, want 1", latestCount)
	}

	versions, err := svc.ListVersions(ctx, user, v2.ID)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("got %d versions, want 2", len(versions))
	}
	if versions[0].VersionNumber != 2 || versions[1].VersionNumber != 1 {
		t.Errorf("versions not newest-first: %d, %d",
			versions[0].VersionNumber, versions[1].VersionNumber)
	}
}

func TestCreateVersionConcurrent(t *testing.T) {
	svc, pool, user := testService(t)
	ctx := context.Background()

	v1, err := svc.CreateFromText(ctx, user, CreateInput{
		Title:   "Contested",
		Content: "The draft everyone revises at once.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The lineage lock plus UNIQUE(root_document_id, version_number)
	// must serialize these: every writer succeeds and gets its own
	// version number.
	const writers = 6
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateVersion(ctx, user, v1.ID, CreateInput{
				Content: fmt.Sprintf("revision from writer %d", i),
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("writer %d: %v", i, err)
		}
	}

	var total, distinct, maxVersion int
	err = pool.QueryRow(ctx,
		`SELECT count(*), count(DISTINCT version_number), max(version_number)
		 FROM document_versions WHERE root_document_id = $1`,
		v1.ID,
	).Scan(&total, &distinct, &maxVersion)
	if err != nil {
		t.Fatalf("ledger query: %v", err)
	}
	if total != writers+1 {
		t.Errorf("ledger rows = %d, want %d", total, writers+1)
	}
	if distinct != total {
		t.Errorf("distinct version numbers = %d, want %d", distinct, total)
	}
	if maxVersion != writers+1 {
		t.Errorf("max version = %d, want %d (no gaps)", maxVersion, writers+1)
	}

	var latestCount int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE root_document_id = $1 AND is_latest`,
		v1.ID,
	).Scan(&latestCount)
	if err != nil {
		t.Fatalf("count latest: %v", err)
	}
	if latestCount != 1 {
		t.Errorf("latest count = %d, want 1", latestCount)
	}
}

func TestAnalysisFanOut(t *testing.T) {
	svc, pool, user := testService(t)
	ctx := context.Background()

	doc, err := svc.CreateFromText(ctx, user, CreateInput{
		Title:   "Fan-out",
		Content: "Content under analysis.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if doc.Status != models.DocStatusReady {
		t.Errorf("status = %q, want ready", doc.Status)
	}
	if doc.FeedbackID == nil {
		t.Fatal("feedback back-reference not set")
	}

	for _, q := range []struct {
		name, sql string
		want      int
	}{
		{"analysis", `SELECT count(*) FROM ai_analyses WHERE document_id = $1`, 1},
		{"metrics", `SELECT count(*) FROM text_metrics m JOIN ai_analyses a ON a.id = m.analysis_id WHERE a.document_id = $1`, 1},
		{"sections", `SELECT count(*) FROM document_sections s JOIN ai_analyses a ON a.id = s.analysis_id WHERE a.document_id = $1`, 1},
		{"suggestions", `SELECT count(*) FROM word_suggestions WHERE document_id = $1`, 1},
		{"feedback", `SELECT count(*) FROM feedback WHERE document_id = $1`, 1},
	} {
		var n int
		if err := pool.QueryRow(ctx, q.sql, doc.ID).Scan(&n); err != nil {
			t.Fatalf("%s count: %v", q.name, err)
		}
		if n != q.want {
			t.Errorf("%s rows = %d, want %d", q.name, n, q.want)
		}
	}

	var status string
	if err := pool.QueryRow(ctx,
		`SELECT status FROM feedback WHERE id = $1`, *doc.FeedbackID,
	).Scan(&status); err != nil {
		t.Fatalf("feedback status: %v", err)
	}
	if status != models.FeedbackStatusAnalyzed {
		t.Errorf("feedback status = %q, want ANALYZED", status)
	}
}

func TestAnalysisFanOutRollsBackWhole(t *testing.T) {
	svc, pool, user := testService(t)
	ctx := context.Background()

	docID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO documents (id, title, content, content_format, user_id,
		   version_number, is_latest, root_document_id, status)
		 VALUES ($1, 'Half-written', 'text', 'TEXT', $2, 1, true, $1, 'pending')`,
		docID, user.ID,
	)
	if err != nil {
		t.Fatalf("insert document: %v", err)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO document_versions (id, root_document_id, document_id, version_number)
		 VALUES ($1, $2, $2, 1)`,
		uuid.New(), docID,
	)
	if err != nil {
		t.Fatalf("insert ledger row: %v", err)
	}

	payload, err := analysis.ParsePayload(cannedCompletion)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}

	// A user id with no users row makes the feedback insert fail its
	// foreign key after the analysis, metrics, section and suggestion
	// rows have already been written in this transaction. None of them
	// may survive the rollback.
	doc := &models.Document{ID: docID, UserID: uuid.New(), Status: models.DocStatusPending}
	err = svc.PersistAnalysisFor(ctx, doc, payload)
	if err == nil {
		t.Fatal("expected persistence failure")
	}
	if apperr.KindOf(err) != apperr.KindPersistence {
		t.Errorf("kind = %v, want persistence", apperr.KindOf(err))
	}

	for _, q := range []struct {
		name, sql string
	}{
		{"analysis", `SELECT count(*) FROM ai_analyses WHERE document_id = $1`},
		{"metrics", `SELECT count(*) FROM text_metrics m JOIN ai_analyses a ON a.id = m.analysis_id WHERE a.document_id = $1`},
		{"sections", `SELECT count(*) FROM document_sections s JOIN ai_analyses a ON a.id = s.analysis_id WHERE a.document_id = $1`},
		{"suggestions", `SELECT count(*) FROM word_suggestions WHERE document_id = $1`},
		{"feedback", `SELECT count(*) FROM feedback WHERE document_id = $1`},
	} {
		var n int
		if err := pool.QueryRow(ctx, q.sql, docID).Scan(&n); err != nil {
			t.Fatalf("%s count: %v", q.name, err)
		}
		if n != 0 {
			t.Errorf("%s rows = %d, want 0 after rollback", q.name, n)
		}
	}

	var status string
	var feedbackID *uuid.UUID
	err = pool.QueryRow(ctx,
		`SELECT status, feedback_id FROM documents WHERE id = $1`, docID,
	).Scan(&status, &feedbackID)
	if err != nil {
		t.Fatalf("document row: %v", err)
	}
	if status != models.DocStatusPending {
		t.Errorf("status = %q, want pending", status)
	}
	if feedbackID != nil {
		t.Errorf("feedback_id = %s, want NULL", *feedbackID)
	}
}

func TestVersionOfUnledgeredDocument(t *testing.T) {
	svc, pool, user := testService(t)
	ctx := context.Background()

	// A documents row with no ledger entry is a data-integrity fault.
	orphanID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO documents (id, title, content, content_format, user_id,
		   version_number, is_latest, root_document_id, status)
		 VALUES ($1, 'Orphan', 'text', 'TEXT', $2, 1, true, $1, 'ready')`,
		orphanID, user.ID,
	)
	if err != nil {
		t.Fatalf("insert orphan: %v", err)
	}

	_, err = svc.CreateVersion(ctx, user, orphanID, CreateInput{Content: "next"})
	if err == nil {
		t.Fatal("expected error for unledgered document")
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %v, want not-found", apperr.KindOf(err))
	}

	// The fault leaves an audit trail even though the request fails.
	var audited int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM audit_logs WHERE action = $1 AND resource_id = $2`,
		audit.ActionIntegrityViolation, orphanID,
	).Scan(&audited)
	if err != nil {
		t.Fatalf("count audit rows: %v", err)
	}
	if audited != 1 {
		t.Errorf("integrity audit rows = %d, want 1", audited)
	}
}

func TestSuggestionResolution(t *testing.T) {
	svc, _, user := testService(t)
	ctx := context.Background()

	doc, err := svc.CreateFromText(ctx, user, CreateInput{
		Title:   "Suggestions",
		Content: "We utilize the framework.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	suggestions, err := svc.ListSuggestions(ctx, user, doc.ID)
	if err != nil {
		t.Fatalf("list suggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if suggestions[0].IsAccepted != nil {
		t.Error("fresh suggestion should be undecided")
	}

	accepted, err := svc.ResolveSuggestion(ctx, user, suggestions[0].ID, true)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.IsAccepted == nil || !*accepted.IsAccepted {
		t.Error("suggestion not accepted")
	}
	if accepted.AcceptedAt == nil {
		t.Error("accepted_at not stamped on acceptance")
	}

	rejected, err := svc.ResolveSuggestion(ctx, user, suggestions[0].ID, false)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.IsAccepted == nil || *rejected.IsAccepted {
		t.Error("suggestion not rejected")
	}
	if rejected.AcceptedAt != nil {
		t.Error("accepted_at should clear on rejection")
	}
}
