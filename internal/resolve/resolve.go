package resolve

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/substantialcattle5/scour/internal/dedup"
)

// Policy selects which member of a duplicate group survives resolution.
type Policy string

const (
	KeepOldest Policy = "oldest"
	KeepNewest Policy = "newest"
)

// ParsePolicy validates a policy name from user input.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case KeepOldest, KeepNewest:
		return Policy(name), nil
	default:
		return "", fmt.Errorf("unknown retention policy %q (expected %q or %q)", name, KeepOldest, KeepNewest)
	}
}

// Action is the per-member result of resolving a group.
type Action string

const (
	ActionRetained Action = "retained"
	ActionRemoved  Action = "removed"
	ActionFailed   Action = "failed"
)

// Outcome records what happened to one group member during Apply.
type Outcome struct {
	Record dedup.FingerprintedRecord
	Action Action
	Err    error
}

// GroupPlan is the resolution decision for one group: a single survivor
// and the members slated for removal.
type GroupPlan struct {
	Group    dedup.DuplicateGroup
	Survivor dedup.FingerprintedRecord
	Remove   []dedup.FingerprintedRecord
}

// DeletionBackend removes a file, reversibly or permanently; the engine
// is indifferent to which. Implementations decide their own retry policy;
// the engine never retries.
type DeletionBackend interface {
	Delete(path string) error
}

// Plan applies the retention policy to each group and returns the
// per-group decisions. Planning is pure: no file is touched until the
// caller explicitly invokes Apply on an inspected plan. Members are
// ordered by modification time ascending, ties broken by path, so the
// same input always yields the same survivor.
func Plan(groups []dedup.DuplicateGroup, policy Policy) ([]GroupPlan, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}

	plans := make([]GroupPlan, 0, len(groups))
	for _, group := range groups {
		members := make([]dedup.FingerprintedRecord, len(group.Members))
		copy(members, group.Members)
		sort.Slice(members, func(i, j int) bool {
			if !members[i].ModTime.Equal(members[j].ModTime) {
				return members[i].ModTime.Before(members[j].ModTime)
			}
			return members[i].Path < members[j].Path
		})

		survivorIdx := 0
		if policy == KeepNewest {
			survivorIdx = len(members) - 1
		}

		remove := make([]dedup.FingerprintedRecord, 0, len(members)-1)
		for i, member := range members {
			if i != survivorIdx {
				remove = append(remove, member)
			}
		}

		plans = append(plans, GroupPlan{
			Group:    dedup.DuplicateGroup{Digest: group.Digest, Size: group.Size, Members: members},
			Survivor: members[survivorIdx],
			Remove:   remove,
		})
	}
	return plans, nil
}

// Apply executes the plan against the deletion backend and returns one
// outcome per group member. The survivor is recorded as retained and is
// never passed to the backend. Each deletion is independent: a failure
// is recorded and processing continues with the remaining candidates
// and groups. Groups are applied concurrently up to parallelism (which
// defaults to 1 when non-positive); deletions within a group run
// sequentially. The outcome order is deterministic: groups in plan
// order, survivor first within each group.
func Apply(ctx context.Context, plans []GroupPlan, backend DeletionBackend, parallelism int) []Outcome {
	if parallelism <= 0 {
		parallelism = 1
	}

	perGroup := make([][]Outcome, len(plans))
	sem := semaphore.NewWeighted(int64(parallelism))
	var wg sync.WaitGroup

	for i, plan := range plans {
		if ctx.Err() != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			// Cancelled before this group started; no member of it is
			// touched and no outcome is recorded for it.
			break
		}
		wg.Add(1)
		go func(i int, plan GroupPlan) {
			defer wg.Done()
			defer sem.Release(1)
			perGroup[i] = applyGroup(plan, backend)
		}(i, plan)
	}
	wg.Wait()

	var outcomes []Outcome
	for _, group := range perGroup {
		outcomes = append(outcomes, group...)
	}
	return outcomes
}

func applyGroup(plan GroupPlan, backend DeletionBackend) []Outcome {
	outcomes := make([]Outcome, 0, len(plan.Remove)+1)
	outcomes = append(outcomes, Outcome{Record: plan.Survivor, Action: ActionRetained})

	for _, candidate := range plan.Remove {
		if err := backend.Delete(candidate.Path); err != nil {
			outcomes = append(outcomes, Outcome{Record: candidate, Action: ActionFailed, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{Record: candidate, Action: ActionRemoved})
	}
	return outcomes
}
