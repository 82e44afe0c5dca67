// Package routing decides which moderator answers a question.
//
// A pending question goes to the eligible moderator with the best ratio of
// skill match to current workload. When no moderator shares a skill with the
// question, it goes to the least busy eligible moderator instead. Decisions
// are serialized per moderator through a Locker so two concurrent decisions
// never both read the same moderator's workload before either write lands.
package routing
