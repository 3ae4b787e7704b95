package service_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/UmudovRavan/taskflow/internal/database"
	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/UmudovRavan/taskflow/internal/push"
	"github.com/UmudovRavan/taskflow/internal/repository"
	"github.com/UmudovRavan/taskflow/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
)

// TaskServiceTestSuite is the test suite for TaskService. It needs a real
// Postgres and skips when DATABASE_URL is not set.
type TaskServiceTestSuite struct {
	suite.Suite
	pool             *pgxpool.Pool
	taskService      *service.TaskService
	taskRepo         *repository.TaskRepository
	ledger           *repository.TransactionRepository
	notificationRepo *repository.NotificationRepository
	performanceRepo  *repository.PerformanceRepository

	// Test fixtures
	aliceID string
	bobID   string
	carolID string
}

// SetupSuite runs once before all tests.
func (s *TaskServiceTestSuite) SetupSuite() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		s.T().Skip("DATABASE_URL not set, skipping database tests")
	}

	ctx := context.Background()

	db, err := database.New(ctx, databaseURL)
	s.Require().NoError(err, "failed to connect to database")

	s.pool = db.Pool()

	err = database.RunMigrations(ctx, s.pool)
	s.Require().NoError(err, "failed to run migrations")

	s.taskRepo = repository.NewTaskRepository(s.pool)
	s.ledger = repository.NewTransactionRepository(s.pool)
	s.notificationRepo = repository.NewNotificationRepository(s.pool)
	s.performanceRepo = repository.NewPerformanceRepository(s.pool)
	commentRepo := repository.NewCommentRepository(s.pool)
	userRepo := repository.NewUserRepository(s.pool)
	fanout := service.NewNotificationFanout(s.notificationRepo, push.NewLogTransport())

	s.taskService = service.NewTaskService(
		s.pool,
		s.taskRepo,
		s.ledger,
		commentRepo,
		s.performanceRepo,
		userRepo,
		fanout,
	)
}

// SetupTest runs before each test.
func (s *TaskServiceTestSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.pool.Exec(ctx,
		"TRUNCATE users, tasks, task_transactions, task_comments, notifications, performance_points CASCADE")
	s.Require().NoError(err, "failed to truncate tables")

	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (id, username, display_name, token)
		VALUES
			('00000000-0000-0000-0000-000000000011', 'alice', 'Alice', 'token-alice'),
			('00000000-0000-0000-0000-000000000012', 'bob', 'Bob', 'token-bob'),
			('00000000-0000-0000-0000-000000000013', 'carol', 'Carol', 'token-carol')
	`)
	s.Require().NoError(err, "failed to create users")
	s.aliceID = "00000000-0000-0000-0000-000000000011"
	s.bobID = "00000000-0000-0000-0000-000000000012"
	s.carolID = "00000000-0000-0000-0000-000000000013"
}

// TearDownSuite runs once after all tests.
func (s *TaskServiceTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *TaskServiceTestSuite) TestAssignTask_Success() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusPending, nil, domain.TaskDifficultyEasy, nil)

	task, err := s.taskService.AssignTask(ctx, taskID, s.aliceID, s.bobID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusAssigned, task.Status)
	s.Require().NotNil(task.AssigneeID)
	s.Equal(s.bobID, *task.AssigneeID)

	// Audit entry and notification both persisted.
	txns, err := s.ledger.ListByTask(ctx, taskID)
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.Equal(s.aliceID, txns[0].FromUserID)
	s.Equal(s.bobID, txns[0].ToUserID)
	s.Equal("Task assigned", txns[0].Comment)

	ns, err := s.notificationRepo.ListByRecipient(ctx, s.bobID)
	s.Require().NoError(err)
	s.Require().Len(ns, 1)
	s.Contains(ns[0].Message, "New task")
	s.False(ns[0].IsRead)
}

func (s *TaskServiceTestSuite) TestAssignTask_NotCreator() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusPending, nil, domain.TaskDifficultyEasy, nil)

	_, err := s.taskService.AssignTask(ctx, taskID, s.bobID, s.carolID)
	s.ErrorIs(err, domain.ErrNotTaskCreator)
}

func (s *TaskServiceTestSuite) TestAssignTask_SelfAssignment() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusPending, nil, domain.TaskDifficultyEasy, nil)

	_, err := s.taskService.AssignTask(ctx, taskID, s.aliceID, s.aliceID)
	s.ErrorIs(err, domain.ErrSelfAssignment)
}

func (s *TaskServiceTestSuite) TestAcceptTask_Success() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusAssigned, &s.bobID, domain.TaskDifficultyEasy, nil)

	task, err := s.taskService.AcceptTask(ctx, taskID, s.bobID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusInProgress, task.Status)

	stored, err := s.taskRepo.GetByID(ctx, taskID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusInProgress, stored.Status)
}

func (s *TaskServiceTestSuite) TestAcceptTask_WrongActor() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusAssigned, &s.bobID, domain.TaskDifficultyEasy, nil)

	_, err := s.taskService.AcceptTask(ctx, taskID, s.carolID)
	s.ErrorIs(err, domain.ErrNotTaskAssignee)
}

func (s *TaskServiceTestSuite) TestAcceptTask_WrongState() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusInProgress, &s.bobID, domain.TaskDifficultyEasy, nil)

	_, err := s.taskService.AcceptTask(ctx, taskID, s.bobID)
	s.ErrorIs(err, domain.ErrInvalidTransition)
}

// TestRejectTask_RoundTrip assigns then rejects: the task returns to the
// creator with no assignee and both steps are on the ledger.
func (s *TaskServiceTestSuite) TestRejectTask_RoundTrip() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusPending, nil, domain.TaskDifficultyEasy, nil)

	_, err := s.taskService.AssignTask(ctx, taskID, s.aliceID, s.bobID)
	s.Require().NoError(err)

	task, err := s.taskService.RejectTask(ctx, taskID, s.bobID, "too busy")
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusAssigned, task.Status)
	s.Nil(task.AssigneeID)

	stored, err := s.taskRepo.GetByID(ctx, taskID)
	s.Require().NoError(err)
	s.Nil(stored.AssigneeID)

	txns, err := s.ledger.ListByTask(ctx, taskID)
	s.Require().NoError(err)
	s.Require().Len(txns, 2)
	s.Equal("Task assigned", txns[0].Comment)
	s.Contains(txns[1].Comment, "too busy")
}

func (s *TaskServiceTestSuite) TestRejectTask_EmptyReason() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusAssigned, &s.bobID, domain.TaskDifficultyEasy, nil)

	_, err := s.taskService.RejectTask(ctx, taskID, s.bobID, "")
	s.ErrorIs(err, domain.ErrEmptyReason)
}

func (s *TaskServiceTestSuite) TestUnassignTask_KeepsStatus() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusAssigned, &s.bobID, domain.TaskDifficultyEasy, nil)

	task, err := s.taskService.UnassignTask(ctx, taskID, s.aliceID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusAssigned, task.Status)
	s.Nil(task.AssigneeID)

	ns, err := s.notificationRepo.ListByRecipient(ctx, s.bobID)
	s.Require().NoError(err)
	s.Require().Len(ns, 1)
	s.Contains(ns[0].Message, "unassigned")
}

func (s *TaskServiceTestSuite) TestFinishTask_Success() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusInProgress, &s.bobID, domain.TaskDifficultyEasy, nil)

	task, err := s.taskService.FinishTask(ctx, taskID, s.bobID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusUnderReview, task.Status)

	// The creator hears about the submission.
	ns, err := s.notificationRepo.ListByRecipient(ctx, s.aliceID)
	s.Require().NoError(err)
	s.Require().Len(ns, 1)
	s.Contains(ns[0].Message, "review")
}

func (s *TaskServiceTestSuite) TestReturnForRevision_Success() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusUnderReview, &s.bobID, domain.TaskDifficultyEasy, nil)

	task, err := s.taskService.ReturnForRevision(ctx, taskID, s.aliceID, "needs tests")
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusInProgress, task.Status)
	s.Require().NotNil(task.AssigneeID)
	s.Equal(s.bobID, *task.AssigneeID)
}

func (s *TaskServiceTestSuite) TestCompleteWithScore_HardAwards30() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusUnderReview, &s.bobID, domain.TaskDifficultyHard, nil)

	task, err := s.taskService.CompleteWithScore(ctx, taskID, s.aliceID, "great work")
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusCompleted, task.Status)

	pp, err := s.performanceRepo.GetByTask(ctx, taskID)
	s.Require().NoError(err)
	s.Equal(s.bobID, pp.RecipientID)
	s.Equal(30, pp.Points)
	s.Equal("great work", pp.Reason)

	entries, err := s.taskService.Leaderboard(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(s.bobID, entries[0].UserID)
	s.Equal(30, entries[0].TotalPoints)
}

// TestCompleteWithScore_ByAssignee checks that a failed completion leaves no
// partial writes behind.
func (s *TaskServiceTestSuite) TestCompleteWithScore_ByAssignee() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusUnderReview, &s.bobID, domain.TaskDifficultyMedium, nil)

	_, err := s.taskService.CompleteWithScore(ctx, taskID, s.bobID, "self review")
	s.ErrorIs(err, domain.ErrNotTaskCreator)

	_, err = s.performanceRepo.GetByTask(ctx, taskID)
	s.ErrorIs(err, domain.ErrPerformancePointNotFound)

	stored, err := s.taskRepo.GetByID(ctx, taskID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusUnderReview, stored.Status)
}

func (s *TaskServiceTestSuite) TestCompleteWithScore_Twice() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusUnderReview, &s.bobID, domain.TaskDifficultyEasy, nil)

	_, err := s.taskService.CompleteWithScore(ctx, taskID, s.aliceID, "done")
	s.Require().NoError(err)

	_, err = s.taskService.CompleteWithScore(ctx, taskID, s.aliceID, "done again")
	s.ErrorIs(err, domain.ErrInvalidTransition)
}

// TestCompleteWithScore_Concurrent checks that racing completions award
// exactly one point record.
func (s *TaskServiceTestSuite) TestCompleteWithScore_Concurrent() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusUnderReview, &s.bobID, domain.TaskDifficultyMedium, nil)

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.taskService.CompleteWithScore(ctx, taskID, s.aliceID, "racing")
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successCount := 0
	for err := range results {
		if err == nil {
			successCount++
		}
	}
	s.Equal(1, successCount, "exactly one completion should succeed")

	pp, err := s.performanceRepo.GetByTask(ctx, taskID)
	s.Require().NoError(err)
	s.Equal(20, pp.Points)
}

// TestLeaderboard_Empty checks that a leaderboard with no scored tasks is an
// empty list, not an error.
func (s *TaskServiceTestSuite) TestLeaderboard_Empty() {
	entries, err := s.taskService.Leaderboard(context.Background())
	s.Require().NoError(err)
	s.NotNil(entries)
	s.Empty(entries)
}

// TestLeaderboard_OrderIndependent awards points across several tasks and
// checks the ranking depends only on the totals.
func (s *TaskServiceTestSuite) TestLeaderboard_OrderIndependent() {
	ctx := context.Background()

	// Bob: HARD (30). Carol: EASY + MEDIUM (30), completed later, so Bob
	// wins the tie on earliest award.
	task1 := s.createTask(ctx, domain.TaskStatusUnderReview, &s.bobID, domain.TaskDifficultyHard, nil)
	_, err := s.taskService.CompleteWithScore(ctx, task1, s.aliceID, "done")
	s.Require().NoError(err)

	task2 := s.createTask(ctx, domain.TaskStatusUnderReview, &s.carolID, domain.TaskDifficultyEasy, nil)
	_, err = s.taskService.CompleteWithScore(ctx, task2, s.aliceID, "done")
	s.Require().NoError(err)

	task3 := s.createTask(ctx, domain.TaskStatusUnderReview, &s.carolID, domain.TaskDifficultyMedium, nil)
	_, err = s.taskService.CompleteWithScore(ctx, task3, s.aliceID, "done")
	s.Require().NoError(err)

	entries, err := s.taskService.Leaderboard(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(s.bobID, entries[0].UserID)
	s.Equal(30, entries[0].TotalPoints)
	s.Equal(s.carolID, entries[1].UserID)
	s.Equal(30, entries[1].TotalPoints)
}

func (s *TaskServiceTestSuite) TestAddComment_MentionFanout() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusInProgress, &s.bobID, domain.TaskDifficultyEasy, nil)

	comment, err := s.taskService.AddComment(ctx, taskID, s.bobID, "ping @carol and @alice, also @nobody")
	s.Require().NoError(err)
	s.Equal([]string{s.carolID, s.aliceID}, comment.Mentions)

	// Both mentioned users get a mention row aimed at the right recipient;
	// the unknown token is dropped, and the creator is not notified twice.
	ns, err := s.notificationRepo.ListByRecipient(ctx, s.carolID)
	s.Require().NoError(err)
	s.Require().Len(ns, 1)
	s.Contains(ns[0].Message, "mentioned you")
	s.NotEmpty(ns[0].ID)

	ns, err = s.notificationRepo.ListByRecipient(ctx, s.aliceID)
	s.Require().NoError(err)
	s.Require().Len(ns, 1)
	s.Contains(ns[0].Message, "mentioned you")
}

func (s *TaskServiceTestSuite) TestAddComment_EmptyContent() {
	ctx := context.Background()
	taskID := s.createTask(ctx, domain.TaskStatusInProgress, &s.bobID, domain.TaskDifficultyEasy, nil)

	_, err := s.taskService.AddComment(ctx, taskID, s.bobID, "")
	s.ErrorIs(err, domain.ErrEmptyComment)
}

func (s *TaskServiceTestSuite) TestExpireOverdue() {
	ctx := context.Background()
	past := time.Now().Add(-1 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	overdueID := s.createTask(ctx, domain.TaskStatusInProgress, &s.bobID, domain.TaskDifficultyEasy, &past)
	onTimeID := s.createTask(ctx, domain.TaskStatusInProgress, &s.bobID, domain.TaskDifficultyEasy, &future)
	// Completed before the deadline passed; must stay completed.
	doneID := s.createTask(ctx, domain.TaskStatusCompleted, &s.bobID, domain.TaskDifficultyEasy, &past)

	count, err := s.taskService.ExpireOverdue(ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	expired, err := s.taskRepo.GetByID(ctx, overdueID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusExpired, expired.Status)

	onTime, err := s.taskRepo.GetByID(ctx, onTimeID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusInProgress, onTime.Status)

	done, err := s.taskRepo.GetByID(ctx, doneID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusCompleted, done.Status)

	// Both parties hear about the expiry.
	txns, err := s.ledger.ListByTask(ctx, overdueID)
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.Equal("Task expired", txns[0].Comment)
}

// Helper: createTask inserts a test task directly.
func (s *TaskServiceTestSuite) createTask(
	ctx context.Context,
	status domain.TaskStatus,
	assigneeID *string,
	difficulty domain.TaskDifficulty,
	deadline *time.Time,
) string {
	var taskID string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, difficulty, status, creator_id, assignee_id, deadline)
		VALUES ('Test Task', 'Test Description', $1, $2, $3, $4, $5)
		RETURNING id
	`, difficulty, status, s.aliceID, assigneeID, deadline).Scan(&taskID)
	s.Require().NoError(err, "failed to create task")
	return taskID
}

// TestTaskServiceTestSuite runs the test suite.
func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
