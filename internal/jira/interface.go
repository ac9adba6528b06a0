package jira

import (
	"context"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// JiraClientInterface defines the operations a Jira client should implement
type JiraClientInterface interface {
	GetIssue(ctx context.Context, issueID string) (*models.Issue, error)
	UpdateIssueField(ctx context.Context, issueID, fieldName, value string) error
	AddComment(ctx context.Context, issueID, comment string) (*models.JiraComment, error)
	AssignIssue(ctx context.Context, issueID, query string) error
}

var _ JiraClientInterface = (*Client)(nil)
