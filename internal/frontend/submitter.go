package frontend

import (
	"context"
	"errors"
	"strings"

	"rxintel/domain/analysis"
	"rxintel/domain/core"
	"rxintel/ports"
)

// Messages shown by the submission handlers.
const (
	MsgProcessingImage = "Processing image..."
	MsgProcessingText  = "Processing text..."
	MsgSendingMessage  = "Sending message..."
	MsgAnalyzed        = "Prescription analyzed successfully!"
	MsgProcessFailed   = "Processing failed"
	MsgContactSent     = "Message sent successfully! We'll get back to you soon."
	MsgContactFailed   = "Failed to send message"
)

// ErrRejected is returned when the API answered with success=false.
var ErrRejected = errors.New("request rejected by server")

// SubmitImage sends the first selected file for analysis.
func (c *Controller) SubmitImage(ctx context.Context) error {
	var file analysis.Upload
	var ok bool
	c.locked(func() {
		files := c.view.SelectedFiles()
		if len(files) == 0 {
			c.notifier.Show(core.ErrNoFileSelected.Error(), ports.NotifyError)
			return
		}
		file, ok = files[0], true
	})
	if !ok {
		return core.ErrNoFileSelected
	}

	resp, err := withLoading(c, MsgProcessingImage, func() (*analysis.Response, error) {
		return c.api.ProcessImage(ctx, file)
	})
	return c.finishAnalysis("process-image", resp, err)
}

// SubmitText sends non-blank prescription text for analysis.
func (c *Controller) SubmitText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		c.locked(func() { c.notifier.Show(core.ErrEmptyText.Error(), ports.NotifyError) })
		return core.ErrEmptyText
	}

	resp, err := withLoading(c, MsgProcessingText, func() (*analysis.Response, error) {
		return c.api.ProcessText(ctx, text)
	})
	return c.finishAnalysis("process-text", resp, err)
}

// finishAnalysis reports the settled request with exactly one notification.
func (c *Controller) finishAnalysis(op string, resp *analysis.Response, err error) error {
	if err != nil {
		c.logger.Error("%s failed: %v", op, err)
		c.locked(func() { c.notifier.Show(err.Error(), ports.NotifyError) })
		return err
	}
	if resp == nil || !resp.Success {
		msg := MsgProcessFailed
		if resp != nil && resp.Error != "" {
			msg = resp.Error
		}
		c.logger.Warn("%s rejected: %s", op, msg)
		c.locked(func() { c.notifier.Show(msg, ports.NotifyError) })
		return errors.Join(ErrRejected, errors.New(msg))
	}

	result := resp.Data
	if result == nil {
		result = &analysis.Result{}
	}
	c.locked(func() {
		c.displayResults(result)
		c.analysesRun++
		c.medicationsFound += len(result.Medications)
		c.lastAnalysis = c.clock.Now()
		c.notifier.Show(MsgAnalyzed, ports.NotifySuccess)
	})
	return nil
}

// SubmitContact posts the contact form without client-side validation.
func (c *Controller) SubmitContact(ctx context.Context, req analysis.ContactRequest) error {
	resp, err := withLoading(c, MsgSendingMessage, func() (*analysis.ContactResponse, error) {
		return c.api.SubmitContact(ctx, req)
	})
	if err != nil {
		c.logger.Error("contact failed: %v", err)
		c.locked(func() { c.notifier.Show(err.Error(), ports.NotifyError) })
		return err
	}
	if resp == nil || !resp.Success {
		msg := MsgContactFailed
		if resp != nil && resp.Error != "" {
			msg = resp.Error
		}
		c.locked(func() { c.notifier.Show(msg, ports.NotifyError) })
		return errors.Join(ErrRejected, errors.New(msg))
	}

	c.locked(func() {
		c.view.ResetContactForm()
		c.notifier.Show(MsgContactSent, ports.NotifySuccess)
	})
	return nil
}
