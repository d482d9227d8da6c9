package integration

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"paperdesk-backend/application/commands"
	cmdbus "paperdesk-backend/application/commands/bus"
	cmdhandlers "paperdesk-backend/application/commands/handlers"
	"paperdesk-backend/application/queries"
	querybus "paperdesk-backend/application/queries/bus"
	queryhandlers "paperdesk-backend/application/queries/handlers"
	"paperdesk-backend/application/services"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	"paperdesk-backend/infrastructure/persistence/memory"
)

type testEnv struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	docs       []*entities.Document
}

// setupTestEnv wires the full command and query path against in-memory
// stores, mirroring the production wiring minus AWS collaborators.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	catalogRepo := memory.NewCatalogRepository()
	libraryRepo := memory.NewLibraryRepository()
	noteRepo := memory.NewNoteRepository()
	ledger := memory.NewVoteLedgerRepository()

	libraryService := services.NewLibraryService(catalogRepo, libraryRepo, nil, nil, logger)
	noteService := services.NewNoteService(catalogRepo, noteRepo, ledger, libraryService, nil, nil, nil, logger)
	recommendationService := services.NewRecommendationService(catalogRepo, libraryRepo, nil, nil, logger)

	vectors := [][]float64{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	docs := make([]*entities.Document, 0, len(vectors))
	for i, vec := range vectors {
		doc, err := entities.NewDocument(
			[]string{"Machine Learning Algorithms", "Neural Networks in Practice", "Climate Change Effects"}[i],
			"Test Author", "Abstract",
			valueobjects.NewFeatureVector(vec))
		if err != nil {
			t.Fatalf("Failed to create document: %v", err)
		}
		if err := catalogRepo.Upsert(ctx, doc); err != nil {
			t.Fatalf("Failed to seed catalog: %v", err)
		}
		docs = append(docs, doc)
	}

	commandBus := cmdbus.NewCommandBus()
	registrations := []struct {
		cmd     cmdbus.Command
		handler cmdbus.CommandHandler
	}{
		{commands.InitializeLibraryCommand{}, cmdhandlers.NewInitializeLibraryHandler(libraryService, logger)},
		{commands.ToggleReadCommand{}, cmdhandlers.NewToggleReadHandler(libraryService, logger)},
		{commands.ToggleBookmarkCommand{}, cmdhandlers.NewToggleBookmarkHandler(libraryService, logger)},
		{commands.AddNoteCommand{}, cmdhandlers.NewAddNoteHandler(noteService, logger)},
		{commands.EditNoteCommand{}, cmdhandlers.NewEditNoteHandler(noteService, logger)},
		{commands.CastVoteCommand{}, cmdhandlers.NewCastVoteHandler(noteService, logger)},
		{commands.SaveDraftCommand{}, cmdhandlers.NewSaveDraftHandler(libraryService, logger)},
	}
	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, reg.handler); err != nil {
			t.Fatalf("Failed to register command handler: %v", err)
		}
	}

	queryBus := querybus.NewQueryBus()
	queryRegistrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetDocumentQuery{}, queryhandlers.NewGetDocumentHandler(libraryService, logger)},
		{queries.ListLibraryQuery{}, queryhandlers.NewListLibraryHandler(libraryService, logger)},
		{queries.DocumentNotesQuery{}, queryhandlers.NewDocumentNotesHandler(noteService, logger)},
		{queries.GetVoteQuery{}, queryhandlers.NewGetVoteHandler(noteService, logger)},
		{queries.GetDraftQuery{}, queryhandlers.NewGetDraftHandler(libraryService, logger)},
		{queries.RecommendQuery{}, queryhandlers.NewRecommendHandler(recommendationService, libraryService, nil, logger)},
	}
	for _, reg := range queryRegistrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			t.Fatalf("Failed to register query handler: %v", err)
		}
	}

	return &testEnv{commandBus: commandBus, queryBus: queryBus, docs: docs}
}

func (e *testEnv) send(t *testing.T, cmd cmdbus.Command) interface{} {
	t.Helper()
	result, err := e.commandBus.Send(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Command %T failed: %v", cmd, err)
	}
	return result
}

func (e *testEnv) ask(t *testing.T, query querybus.Query) interface{} {
	t.Helper()
	result, err := e.queryBus.Ask(context.Background(), query)
	if err != nil {
		t.Fatalf("Query %T failed: %v", query, err)
	}
	return result
}

// TestLibraryLifecycle walks a user from first login through flag toggles,
// drafting, note collaboration and voting.
func TestLibraryLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	docID := env.docs[0].ID().String()

	env.send(t, commands.InitializeLibraryCommand{UserID: "alice"})
	env.send(t, commands.InitializeLibraryCommand{UserID: "bob"})

	t.Run("library lists every catalog document", func(t *testing.T) {
		result := env.ask(t, queries.ListLibraryQuery{UserID: "alice"})
		listed, ok := result.([]queries.DocumentResult)
		if !ok {
			t.Fatalf("Unexpected result type %T", result)
		}
		if len(listed) != 3 {
			t.Fatalf("Expected 3 documents, got %d", len(listed))
		}
		for _, doc := range listed {
			if doc.IsRead || doc.IsBookmarked {
				t.Errorf("Document %s should start with cleared flags", doc.ID)
			}
		}
	})

	t.Run("toggles affect only the acting user", func(t *testing.T) {
		result := env.send(t, commands.ToggleReadCommand{UserID: "alice", DocumentID: docID})
		toggle, ok := result.(cmdhandlers.ToggleResult)
		if !ok {
			t.Fatalf("Unexpected result type %T", result)
		}
		if !toggle.Value {
			t.Error("Expected read flag to be set")
		}

		bobView := env.ask(t, queries.GetDocumentQuery{UserID: "bob", DocumentID: docID}).(queries.DocumentResult)
		if bobView.IsRead {
			t.Error("Bob's overlay must not see Alice's read flag")
		}
	})

	t.Run("double toggle restores the flag", func(t *testing.T) {
		env.send(t, commands.ToggleBookmarkCommand{UserID: "alice", DocumentID: docID})
		result := env.send(t, commands.ToggleBookmarkCommand{UserID: "alice", DocumentID: docID})
		if result.(cmdhandlers.ToggleResult).Value {
			t.Error("Expected bookmark flag cleared after second toggle")
		}
	})

	t.Run("drafts are personal and clearable", func(t *testing.T) {
		env.send(t, commands.SaveDraftCommand{UserID: "alice", DocumentID: docID, Content: "rough idea"})

		draft := env.ask(t, queries.GetDraftQuery{UserID: "alice", DocumentID: docID}).(queries.DraftResult)
		if draft.Content != "rough idea" {
			t.Errorf("Expected draft content, got %q", draft.Content)
		}

		bobDraft := env.ask(t, queries.GetDraftQuery{UserID: "bob", DocumentID: docID}).(queries.DraftResult)
		if bobDraft.Content != "" {
			t.Error("Bob must not see Alice's draft")
		}

		env.send(t, commands.SaveDraftCommand{UserID: "alice", DocumentID: docID, Content: ""})
		cleared := env.ask(t, queries.GetDraftQuery{UserID: "alice", DocumentID: docID}).(queries.DraftResult)
		if cleared.Content != "" {
			t.Error("Expected draft to be cleared")
		}
	})
}

// TestNoteCollaboration exercises the shared note path: one user writes,
// another reads and votes, counters follow the ledger.
func TestNoteCollaboration(t *testing.T) {
	env := setupTestEnv(t)
	docID := env.docs[0].ID().String()

	env.send(t, commands.InitializeLibraryCommand{UserID: "alice"})
	env.send(t, commands.InitializeLibraryCommand{UserID: "bob"})

	note := env.send(t, commands.AddNoteCommand{
		UserID: "alice", DocumentID: docID, Content: "strong empirical section",
	}).(*entities.Note)
	noteID := note.ID().String()

	t.Run("note is visible to other users", func(t *testing.T) {
		result := env.ask(t, queries.DocumentNotesQuery{UserID: "bob", DocumentID: docID, Limit: 5})
		notes := result.(queries.DocumentNotesResult)
		if notes.OwnNote != nil {
			t.Error("Bob has not written a note")
		}
		if len(notes.TopNotes) != 1 {
			t.Fatalf("Expected 1 community note, got %d", len(notes.TopNotes))
		}
		if notes.TopNotes[0].Content != "strong empirical section" {
			t.Errorf("Unexpected note content %q", notes.TopNotes[0].Content)
		}
	})

	t.Run("author sees the note as their own", func(t *testing.T) {
		result := env.ask(t, queries.DocumentNotesQuery{UserID: "alice", DocumentID: docID, Limit: 5})
		notes := result.(queries.DocumentNotesResult)
		if notes.OwnNote == nil || notes.OwnNote.ID != noteID {
			t.Fatal("Expected Alice's own note in the result")
		}
		if len(notes.TopNotes) != 0 {
			t.Error("Own note must not appear among community notes")
		}
	})

	t.Run("upvote then retraction", func(t *testing.T) {
		result := env.send(t, commands.CastVoteCommand{UserID: "bob", NoteID: noteID, Vote: "upvote"})
		vote := result.(cmdhandlers.VoteResult)
		if vote.Vote != "upvote" || vote.Upvotes != 1 {
			t.Fatalf("Unexpected vote result %+v", vote)
		}

		result = env.send(t, commands.CastVoteCommand{UserID: "bob", NoteID: noteID, Vote: "upvote"})
		vote = result.(cmdhandlers.VoteResult)
		if vote.Vote != "" || vote.Upvotes != 0 {
			t.Fatalf("Expected retraction, got %+v", vote)
		}

		state := env.ask(t, queries.GetVoteQuery{UserID: "bob", NoteID: noteID}).(queries.VoteStateResult)
		if state.Vote != "" {
			t.Errorf("Expected no recorded vote, got %q", state.Vote)
		}
	})

	t.Run("switching vote direction", func(t *testing.T) {
		env.send(t, commands.CastVoteCommand{UserID: "bob", NoteID: noteID, Vote: "downvote"})
		result := env.send(t, commands.CastVoteCommand{UserID: "bob", NoteID: noteID, Vote: "upvote"})
		vote := result.(cmdhandlers.VoteResult)
		if vote.Upvotes != 1 || vote.Downvotes != 0 {
			t.Fatalf("Expected switch to upvote, got %+v", vote)
		}
	})

	t.Run("only the author can edit", func(t *testing.T) {
		_, err := env.commandBus.Send(context.Background(), commands.EditNoteCommand{
			UserID: "bob", NoteID: noteID, Content: "defaced",
		})
		if err == nil {
			t.Fatal("Expected edit by non-author to fail")
		}

		env.send(t, commands.EditNoteCommand{UserID: "alice", NoteID: noteID, Content: "revised take"})
		result := env.ask(t, queries.DocumentNotesQuery{UserID: "bob", DocumentID: docID, Limit: 5})
		notes := result.(queries.DocumentNotesResult)
		if notes.TopNotes[0].Content != "revised take" {
			t.Errorf("Expected edited content, got %q", notes.TopNotes[0].Content)
		}
	})
}

// TestRecommendationFlow checks ranked similarity results end to end.
func TestRecommendationFlow(t *testing.T) {
	env := setupTestEnv(t)
	focalID := env.docs[0].ID().String()

	env.send(t, commands.InitializeLibraryCommand{UserID: "alice"})

	result := env.ask(t, queries.RecommendQuery{UserID: "alice", DocumentID: focalID, Limit: 2})
	recs, ok := result.([]queries.RecommendationResult)
	if !ok {
		t.Fatalf("Unexpected result type %T", result)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}

	// The nearly parallel vector must outrank the orthogonal one.
	if recs[0].Document.ID != env.docs[1].ID().String() {
		t.Errorf("Expected most similar document first, got %s", recs[0].Document.ID)
	}
	if recs[0].Score < recs[1].Score {
		t.Error("Expected scores in descending order")
	}
	for _, rec := range recs {
		if rec.Document.ID == focalID {
			t.Error("Focal document must be excluded from recommendations")
		}
	}
}
