package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL is how long cached taxonomy lists live.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "campushub:taxonomy:"

// Lookup is the backend surface for taxonomy lists. *backend.Client
// satisfies it.
type Lookup interface {
	Courses(ctx context.Context) ([]models.Course, error)
	Branches(ctx context.Context, courseCode string) ([]models.Branch, error)
	Subjects(ctx context.Context, branchCode string, semester int) ([]models.Subject, error)
}

// Service serves taxonomy lists through a Redis read-through cache. A nil
// Redis client disables caching. Cache failures are logged and fall
// through to the backend.
type Service struct {
	api Lookup
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewService builds a Service. ttl <= 0 uses DefaultTTL.
func NewService(api Lookup, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, rdb: rdb, ttl: ttl, log: logger}
}

// Courses lists all courses.
func (s *Service) Courses(ctx context.Context) ([]models.Course, error) {
	return cached(ctx, s, "courses", func(ctx context.Context) ([]models.Course, error) {
		return s.api.Courses(ctx)
	})
}

// Branches lists the branches of courseCode.
func (s *Service) Branches(ctx context.Context, courseCode string) ([]models.Branch, error) {
	if courseCode == "" {
		return nil, ErrNoCourse
	}
	return cached(ctx, s, "branches:"+courseCode, func(ctx context.Context) ([]models.Branch, error) {
		return s.api.Branches(ctx, courseCode)
	})
}

// Subjects lists the subjects of branchCode for semester (0 = all).
func (s *Service) Subjects(ctx context.Context, branchCode string, semester int) ([]models.Subject, error) {
	if branchCode == "" {
		return nil, ErrNoBranch
	}
	key := "subjects:" + branchCode + ":" + strconv.Itoa(semester)
	return cached(ctx, s, key, func(ctx context.Context) ([]models.Subject, error) {
		return s.api.Subjects(ctx, branchCode, semester)
	})
}

// Load fills a Cascade for a form: courses, the saved pair applied once,
// and the branch list of whatever course ends up selected.
func (s *Service) Load(ctx context.Context, c *Cascade, pref models.ResourcePreference) ([]models.Course, error) {
	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, err
	}
	c.ApplySaved(pref, true)
	if c.Course != "" && !c.branchesLoaded {
		branches, err := s.Branches(ctx, c.Course)
		if err != nil {
			return courses, err
		}
		c.SetBranches(c.Course, branches)
		c.ApplySaved(pref, true)
	}
	return courses, nil
}

// Restore rebuilds a Cascade for a submitted or stored selection, loading
// every list below it. Selections that fail to load stay set with empty
// option lists; the first error is returned with the courses.
func (s *Service) Restore(ctx context.Context, c *Cascade, course, branch string, semester int, subject string) ([]models.Course, error) {
	courses, err := s.Courses(ctx)
	if err != nil || course == "" {
		return courses, err
	}
	c.SelectCourse(course)
	c.courseApplied, c.branchApplied = true, true
	branches, err := s.Branches(ctx, course)
	if err != nil {
		return courses, err
	}
	c.SetBranches(course, branches)
	if branch == "" {
		return courses, nil
	}
	if _, err := c.SelectBranch(branch); err != nil {
		return courses, err
	}
	if semester > 0 {
		subjects, err := s.Subjects(ctx, branch, semester)
		if err != nil {
			return courses, err
		}
		c.SetSubjects(branch, subjects)
	}
	if subject != "" {
		_ = c.SelectSubject(subject)
	}
	return courses, nil
}

// Invalidate drops every cached taxonomy list.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	key = keyPrefix + key
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var v T
			if jerr := json.Unmarshal(raw, &v); jerr == nil {
				return v, nil
			}
			s.log.Warn("taxonomy cache entry unreadable", zap.String("key", key))
		case !errors.Is(err, redis.Nil):
			s.log.Warn("taxonomy cache get failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if s.rdb != nil {
		if raw, jerr := json.Marshal(v); jerr == nil {
			if serr := s.rdb.Set(ctx, key, raw, s.ttl).Err(); serr != nil {
				s.log.Warn("taxonomy cache set failed", zap.String("key", key), zap.Error(serr))
			}
		}
	}
	return v, nil
}
