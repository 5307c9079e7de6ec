package main

// notify module provides transient user notifications (toasts)
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"sync"
)

// NoticeKind represents kind of user notification
type NoticeKind string

const (
	NoticeDefault     NoticeKind = "default"
	NoticeDestructive NoticeKind = "destructive"
	NoticeWarning     NoticeKind = "warning"
)

// Notice represents single user notification
type Notice struct {
	Kind    NoticeKind `json:"kind"`    // notice kind
	Title   string     `json:"title"`   // notice title
	Message string     `json:"message"` // notice message
}

// Notifier represents sink of user notifications
type Notifier interface {
	Notify(kind NoticeKind, title, message string)
}

// NotifierFunc adapts ordinary function to Notifier interface
type NotifierFunc func(kind NoticeKind, title, message string)

// Notify implements Notifier interface
func (f NotifierFunc) Notify(kind NoticeKind, title, message string) {
	f(kind, title, message)
}

// maxToasts defines how many pending notices we keep per visit
const maxToasts = 8

// Toasts keeps pending notices until they are rendered
type Toasts struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify implements Notifier interface, the oldest notice is dropped
// when queue is full
func (t *Toasts) Notify(kind NoticeKind, title, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notices = append(t.notices, Notice{Kind: kind, Title: title, Message: message})
	if len(t.notices) > maxToasts {
		t.notices = t.notices[len(t.notices)-maxToasts:]
	}
}

// Drain returns pending notices and clears the queue
func (t *Toasts) Drain() []Notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.notices
	t.notices = nil
	return out
}
