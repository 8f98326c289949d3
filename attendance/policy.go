/*
policy.go - Violation counters and status transitions

PURPOSE:
  Applies the violation policy after each event append: late arrivals
  and late lunch returns increment their counters, and any counter that
  strictly exceeds its limit finalizes the internship. Also closes the
  success path: an active intern whose completed hours reach the required
  hours is finalized as HoursCompleted.

TRANSITION RULES:
  tardinessEntryCount > maxEntryTardiness  -> Finalized(ExcessTardiness)
  tardinessLunchCount > maxLunchTardiness  -> Finalized(ExcessTardiness)
  absenceCount       > maxAbsences         -> Finalized(ExcessAbsence)
  warningCount       > maxWarnings         -> Finalized(ExcessWarnings)
  completedHours    >= requiredHours       -> Finalized(HoursCompleted)

  Transitions are one-directional: once Blocked or Finalized, the policy
  never reactivates a profile. Reactivation is an explicit administrative
  action outside the engine.

SEE ALSO:
  - classifier.go: Decides IsLate consumed here
  - engine.go: Runs the policy inside the append transaction
*/
package attendance

// ViolationPolicy evaluates counter limits and status transitions against
// a clock configuration.
type ViolationPolicy struct {
	cfg ClockConfiguration
}

func NewViolationPolicy(cfg ClockConfiguration) ViolationPolicy {
	return ViolationPolicy{cfg: cfg}
}

// ApplyEvent updates tardiness counters for a freshly appended event and
// applies any resulting status transition.
func (p ViolationPolicy) ApplyEvent(profile *InternProfile, ev AttendanceEvent) {
	if !ev.IsLate {
		return
	}

	switch ev.Kind {
	case KindClockIn:
		profile.TardinessEntryCount++
	case KindLunchIn:
		profile.TardinessLunchCount++
	default:
		return
	}

	if profile.TardinessEntryCount > p.cfg.MaxEntryTardiness ||
		profile.TardinessLunchCount > p.cfg.MaxLunchTardiness {
		p.finalize(profile, ReasonExcessTardiness)
	}
}

// ApplyAbsence increments the absence counter on behalf of the external
// profile collaborator and applies the limit.
func (p ViolationPolicy) ApplyAbsence(profile *InternProfile) {
	profile.AbsenceCount++
	if profile.AbsenceCount > p.cfg.MaxAbsences {
		p.finalize(profile, ReasonExcessAbsence)
	}
}

// ApplyWarning increments the warning counter on behalf of the external
// profile collaborator and applies the limit.
func (p ViolationPolicy) ApplyWarning(profile *InternProfile) {
	profile.WarningCount++
	if profile.WarningCount > p.cfg.MaxWarnings {
		p.finalize(profile, ReasonExcessWarnings)
	}
}

// ApplyHours closes the success path once required hours are reached.
// Only an Active profile can complete; a finalized one stays finalized.
func (p ViolationPolicy) ApplyHours(profile *InternProfile) {
	if !profile.Status.IsActive() {
		return
	}
	if profile.CompletedHours.GreaterThanOrEqual(profile.RequiredHours) {
		profile.Status = FinalizedStatus(ReasonHoursCompleted)
	}
}

// finalize moves the profile into a terminal state unless it already is
// in one. One-directional by construction.
func (p ViolationPolicy) finalize(profile *InternProfile, reason StatusReason) {
	if profile.Status.Terminal() {
		return
	}
	profile.Status = FinalizedStatus(reason)
}
