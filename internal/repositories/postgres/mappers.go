package postgres

import (
	domain "github.com/glowcart/api/internal/domain"
)

func toDomainOrder(m OrderModel) domain.Order {
	return domain.Order{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		SalesStaffID:  m.SalesStaffID,
		TotalAmount:   m.TotalAmount,
		Status:        domain.OrderStatus(m.Status),
		OrderDate:     m.OrderDate,
		PaymentMethod: m.PaymentMethod,
		Address:       m.Address,
	}
}

func toDomainTransaction(m PaymentTransactionModel) domain.PaymentTransaction {
	return domain.PaymentTransaction{
		TransactionID: m.TransactionID,
		OrderID:       m.OrderID,
		Amount:        m.Amount,
		ResultCode:    m.ResultCode,
		ResponseTime:  m.ResponseTime.UTC(),
		Status:        domain.PaymentStatus(m.Status),
	}
}

func toTransactionModel(txn domain.PaymentTransaction) PaymentTransactionModel {
	return PaymentTransactionModel{
		TransactionID: txn.TransactionID,
		OrderID:       txn.OrderID,
		Amount:        txn.Amount,
		ResultCode:    txn.ResultCode,
		ResponseTime:  txn.ResponseTime.UTC(),
		Status:        int(txn.Status),
	}
}

func toDomainVideo(m KolVideoModel) domain.KolVideo {
	return domain.KolVideo{
		ID:                 m.ID,
		Title:              m.Title,
		Description:        m.Description,
		VideoURL:           m.VideoURL,
		PublicID:           m.PublicID,
		ProductID:          m.ProductID,
		AffiliateProfileID: m.AffiliateProfileID,
		CreatedAt:          m.CreatedAt.UTC(),
		Active:             m.Active,
	}
}

func toVideoModel(v domain.KolVideo) KolVideoModel {
	return KolVideoModel{
		ID:                 v.ID,
		Title:              v.Title,
		Description:        v.Description,
		VideoURL:           v.VideoURL,
		PublicID:           v.PublicID,
		ProductID:          v.ProductID,
		AffiliateProfileID: v.AffiliateProfileID,
		Active:             v.Active,
		CreatedAt:          v.CreatedAt,
	}
}

func toDomainProfile(m AffiliateProfileModel) domain.AffiliateProfile {
	return domain.AffiliateProfile{
		ID:     m.ID,
		UserID: m.UserID,
	}
}
