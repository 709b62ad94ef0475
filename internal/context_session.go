package internal

import "github.com/dmitrymomot/approuter/pkg/session"

func (c *requestContext) UserID() string {
	if c.sessLoaded {
		return c.sess.Subject()
	}
	sess, err := c.Session()
	if err != nil {
		return ""
	}
	return sess.Subject()
}

func (c *requestContext) IsAuthenticated() bool {
	return c.UserID() != ""
}

func (c *requestContext) Session() (*session.Session, error) {
	if c.sessions == nil {
		return nil, session.ErrNotConfigured
	}
	c.flushOnWrite()
	if c.sessLoaded {
		return c.sess, nil
	}

	sess, err := c.sessions.LoadSession(c.Context(), c.r)
	if err != nil {
		return nil, err
	}
	c.sess, c.sessLoaded = sess, true
	return sess, nil
}

// flushOnWrite saves a modified session right before the response header
// is committed. Store errors are logged; the response is already decided.
func (c *requestContext) flushOnWrite() {
	if c.flushRegistered {
		return
	}
	c.flushRegistered = true
	c.w.OnBeforeWrite(func() {
		if c.sess == nil || !c.sess.IsDirty() {
			return
		}
		if err := c.sessions.Store().Update(c.Context(), c.sess); err != nil {
			c.LogError("failed to save session", "error", err)
			return
		}
		c.sess.ClearDirty()
	})
}

func (c *requestContext) AuthenticateSession(userID string) error {
	if c.sessions == nil {
		return session.ErrNotConfigured
	}

	sess, err := c.Session()
	if err != nil {
		// An unknown or expired cookie is replaced by a fresh session.
		c.LogWarn("failed to load session", "error", err)
	}
	if sess == nil {
		if sess, err = c.sessions.CreateSession(c.Context(), c.r); err != nil {
			return err
		}
		c.sess, c.sessLoaded = sess, true
	}

	sess.Authenticate(userID)
	if err := c.sessions.RotateToken(c.Context(), sess); err != nil {
		return err
	}
	c.sessions.SaveSession(c.w, sess)
	return nil
}

func (c *requestContext) DestroySession() error {
	if c.sessions == nil {
		return session.ErrNotConfigured
	}
	if !c.sessLoaded {
		if _, err := c.Session(); err != nil {
			c.LogWarn("failed to load session", "error", err)
		}
	}

	if c.sess != nil {
		if err := c.sessions.Store().Delete(c.Context(), c.sess.ID); err != nil {
			return err
		}
	}
	c.sessions.DeleteSession(c.w)
	c.sess, c.sessLoaded = nil, true
	return nil
}
