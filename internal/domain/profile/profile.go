package profile

// Profile mirrors the user record kept by the hosted auth provider. Premium
// is flipped by a confirmed payment.
type Profile struct {
	UserID   string
	FullName string
	Premium  bool
}
