package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/thebtf/stagewhisper/pkg/models"
)

type DebriefStoreSuite struct {
	suite.Suite
	store    *Store
	debriefs *DebriefStore
	ctx      context.Context
}

func (s *DebriefStoreSuite) SetupTest() {
	store, err := NewStore(StoreConfig{Path: filepath.Join(s.T().TempDir(), "test.db")})
	s.Require().NoError(err)
	s.store = store
	s.debriefs = NewDebriefStore(store)
	s.ctx = context.Background()
}

func (s *DebriefStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func TestDebriefStoreSuite(t *testing.T) {
	suite.Run(t, new(DebriefStoreSuite))
}

func sampleDebrief(sessionID string, endedAt time.Time) models.Debrief {
	score := 72.0
	emotion := models.EmotionResult{DominantEmotion: "engaged", Score: score, Confidence: 0.9}
	return models.Debrief{
		SessionID:  sessionID,
		EventCount: 1,
		History: []models.SignalEvent{
			{Kind: models.EventEmotion, Timestamp: endedAt.Add(-time.Minute), Emotion: &emotion},
		},
		Context:   models.SessionContext{Persona: "CTO", Goal: "renewal"},
		StartedAt: endedAt.Add(-10 * time.Minute),
		EndedAt:   endedAt,
	}
}

func (s *DebriefStoreSuite) TestSaveAndGetRoundTrip() {
	endedAt := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	original := sampleDebrief("sess-1", endedAt)
	s.Require().NoError(s.debriefs.Save(s.ctx, original))

	got, err := s.debriefs.Get(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal("sess-1", got.SessionID)
	s.Equal(1, got.EventCount)
	s.Equal("CTO", got.Context.Persona)
	s.Equal("renewal", got.Context.Goal)
	s.Require().Len(got.History, 1)
	s.Equal(models.EventEmotion, got.History[0].Kind)
	s.Require().NotNil(got.History[0].Emotion)
	s.Equal(72.0, got.History[0].Emotion.Score)
	s.Equal(original.EndedAt.UnixMilli(), got.EndedAt.UnixMilli())
}

func (s *DebriefStoreSuite) TestGetMissingSessionIsNil() {
	got, err := s.debriefs.Get(s.ctx, "never-archived")
	s.NoError(err)
	s.Nil(got)
}

func (s *DebriefStoreSuite) TestSaveReplacesEarlierArchive() {
	endedAt := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	first := sampleDebrief("sess-1", endedAt)
	s.Require().NoError(s.debriefs.Save(s.ctx, first))

	second := first
	second.EventCount = 5
	s.Require().NoError(s.debriefs.Save(s.ctx, second))

	got, err := s.debriefs.Get(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(5, got.EventCount)

	recent, err := s.debriefs.RecentSessions(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(recent, 1)
}

func (s *DebriefStoreSuite) TestRecentSessionsNewestFirst() {
	base := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		d := sampleDebrief(fmt.Sprintf("sess-%d", i), base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.debriefs.Save(s.ctx, d))
	}

	recent, err := s.debriefs.RecentSessions(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal("sess-2", recent[0].SessionID)
	s.Equal("sess-1", recent[1].SessionID)
	s.Equal("CTO", recent[0].Context.Persona)
}
