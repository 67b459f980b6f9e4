package handler

import (
	"errors"
	"nbprates/internal/domain"
	"net"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Sync godoc
// @Summary Synchronize rates
// @Description Fetch the NBP tables published since the last stored date and store the new ones
// @Tags Sync
// @Produce json
// @Success 200 {object} rate.SyncReport
// @Failure 502 {object} errorResponse "rates feed unavailable"
// @Failure 500 {object} errorResponse
// @Router /sync [post]
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	report, err := h.syncer.Sync(r.Context())
	if err != nil {
		fields := logrus.Fields{"handler": "Sync", "exec_id": report.ExecID}
		var syncErr *domain.SynchronizationError
		if errors.As(err, &syncErr) {
			fields["table_type"] = syncErr.TableType
		}
		if feedFailed(err) {
			msg := "rates feed is unavailable right now, try again later"
			logrus.WithError(err).WithFields(fields).Error(msg)
			writeError(w, http.StatusBadGateway, msg)
			return
		}
		msg := "ups, synchronization failed this time"
		logrus.WithError(err).WithFields(fields).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// feedFailed reports whether err came from talking to the rates feed: an error status, or a
// transport failure such as a timeout or DNS error. Database errors never count, even when
// they are network errors underneath.
func feedFailed(err error) bool {
	var persistenceErr *domain.PersistenceError
	if errors.As(err, &persistenceErr) {
		return false
	}
	var remoteErr *domain.RemoteFetchError
	if errors.As(err, &remoteErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
