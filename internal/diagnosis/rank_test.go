package diagnosis

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sovbot/internal/callback"
	"github.com/abhisek/sovbot/internal/session"
)

func TestTopK(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		k      int
		want   []session.Candidate
	}{
		{"scenario A", []int{5, 1, 3}, 2, []session.Candidate{{TopicID: 0, Score: 5}, {TopicID: 2, Score: 3}}},
		{"ties keep topic order", []int{2, 7, 2, 7}, 3, []session.Candidate{{TopicID: 1, Score: 7}, {TopicID: 3, Score: 7}, {TopicID: 0, Score: 2}}},
		{"k above length", []int{1, 2}, 8, []session.Candidate{{TopicID: 1, Score: 2}, {TopicID: 0, Score: 1}}},
		{"k zero", []int{1, 2}, 0, []session.Candidate{}},
		{"negative k", []int{1}, -3, []session.Candidate{}},
		{"no topics", nil, 3, []session.Candidate{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, TopK(tt.scores, tt.k)); diff != "" {
				t.Errorf("TopK mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopKProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		n := rng.IntN(25)
		k := rng.IntN(12)
		scores := make([]int, n)
		for i := range scores {
			scores[i] = rng.IntN(6)
		}

		got := TopK(scores, k)
		require.Len(t, got, min(k, n))

		seen := make(map[int]bool)
		for i, c := range got {
			require.GreaterOrEqual(t, c.TopicID, 0)
			require.Less(t, c.TopicID, n)
			require.False(t, seen[c.TopicID], "duplicate topic %d", c.TopicID)
			seen[c.TopicID] = true
			require.Equal(t, scores[c.TopicID], c.Score)
			if i > 0 {
				prev := got[i-1]
				require.True(t, prev.Score > c.Score || (prev.Score == c.Score && prev.TopicID < c.TopicID),
					"order broken at %d: %+v then %+v", i, prev, c)
			}
		}
		// Nothing left out scores higher than the last kept entry.
		if len(got) > 0 {
			last := got[len(got)-1]
			for id, s := range scores {
				if !seen[id] {
					require.True(t, s < last.Score || (s == last.Score && id > last.TopicID))
				}
			}
		}
	}
}

// TestRandomWalkProperties drives sessions with a mix of valid, replayed and
// out-of-order answers and checks the engine's invariants after every step.
func TestRandomWalkProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	cat := testCatalog(t, 10)
	h := newHarness(t, cat, config(4, 3, PolicyIgnore))
	ctx := context.Background()

	for run := range 50 {
		user := session.UserID(run + 1)
		out := h.start(t, user)
		var history []string
		accepted := 0

		for out != nil && out.Kind == OutboundPrompt {
			before := h.state(t, user)

			var payload string
			replay := len(history) > 0 && rng.IntN(3) == 0
			if replay {
				payload = history[rng.IntN(len(history))]
			} else {
				payload = out.Prompt.Choices[rng.IntN(len(out.Prompt.Choices))].Value
			}

			next, err := h.HandlePayload(ctx, user, payload)
			after := h.state(t, user)

			if replay {
				require.True(t, errors.Is(err, ErrStaleAnswer), "replay accepted: %v", err)
				if diff := cmp.Diff(before, after); diff != "" {
					t.Fatalf("replay mutated session:\n%s", diff)
				}
				require.Equal(t, out, next)
				continue
			}

			require.NoError(t, err)
			accepted++
			history = append(history, payload)

			a, err := callback.Decode(payload)
			require.NoError(t, err)
			total := 0
			for i := range after.Scores {
				total += after.Scores[i] - before.Scores[i]
			}
			require.Equal(t, a.Weight, total, "exactly one score moved by the weight")

			switch {
			case after.Stage == before.Stage:
				require.Equal(t, before.QuestionIndex+1, after.QuestionIndex)
			case before.Stage == session.StageFirst:
				require.Equal(t, session.StageSecond, after.Stage)
				require.Equal(t, 0, after.QuestionIndex)
				require.Len(t, after.Narrowed, 4)
			default:
				require.Equal(t, session.StageDone, after.Stage)
			}
			if before.Narrowed != nil {
				require.Equal(t, before.Narrowed, after.Narrowed, "narrowed list never changes")
			}
			out = next
		}

		require.Equal(t, cat.FirstStageLen()+4, accepted)
		require.NotNil(t, out)
		final := h.state(t, user)
		if diff := cmp.Diff(h.Rank(final.Scores, 3), out.Result); diff != "" {
			t.Fatalf("result is not the top-3 of final scores:\n%s", diff)
		}
		require.Equal(t, TopK(final.Scores, 3)[0].Score, out.Result[0].Score)
	}
}
