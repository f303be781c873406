package service

import "time"

func (s *AttemptService) SetClock(now func() time.Time)     { s.now = now }
func (s *ExamService) SetClock(now func() time.Time)        { s.now = now }
func (s *ExplanationService) SetClock(now func() time.Time) { s.now = now }
func (s *PaymentService) SetClock(now func() time.Time)     { s.now = now }
